package engine

import (
	"fmt"
	"sort"

	"datalens/domain/analysis"
	"datalens/domain/dataset"
)

// topDistributionSize caps the frequency table reported per categorical
// column.
const topDistributionSize = 5

// DetectPatterns derives the three pattern kinds from a cleaned dataset:
// categorical distributions, numeric range/outlier analyses, and the
// missing-data summary. Patterns appear in column-declaration order
// within each kind; the missing-data summary is emitted at most once and
// only when at least one column has a null. Degenerate columns are
// logged and skipped, never fatal.
func (e *Engine) DetectPatterns(ds *dataset.Dataset, meta dataset.Metadata) []analysis.Pattern {
	patterns := []analysis.Pattern{}

	for _, column := range meta.CategoricalColumns {
		p, ok := e.categoricalPattern(ds, column)
		if !ok {
			continue
		}
		patterns = append(patterns, p)
	}

	for _, column := range meta.NumericColumns {
		p, ok := e.numericPattern(ds, column)
		if !ok {
			continue
		}
		patterns = append(patterns, p)
	}

	if missing := missingColumns(ds); len(missing) > 0 {
		patterns = append(patterns, analysis.NewMissingData(missing))
	}

	e.log.Info("identified %d patterns", len(patterns))
	return patterns
}

// categoricalPattern counts value frequencies with first-encounter tie
// breaking: equal counts rank in the order the values first appear.
func (e *Engine) categoricalPattern(ds *dataset.Dataset, column string) (analysis.Pattern, bool) {
	counts := make(map[string]int)
	order := []string{}
	for _, row := range ds.Rows {
		v := row[column]
		if v.IsMissing() {
			continue
		}
		label := v.Label()
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	if len(order) == 0 {
		e.log.Warn("patterns: skipping all-null categorical column %s", column)
		return analysis.Pattern{}, false
	}

	// Stable sort keeps first-encountered values ahead on equal counts
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := make(map[string]int, topDistributionSize)
	for i, label := range order {
		if i == topDistributionSize {
			break
		}
		top[label] = counts[label]
	}

	return analysis.NewCategoricalDistribution(column, len(order), order[0], counts[order[0]], top), true
}

// numericPattern applies the IQR rule: values strictly outside
// [Q1-1.5*IQR, Q3+1.5*IQR] are outliers. A value exactly on a bound is
// not an outlier. Percentages are over the dataset's total row count.
func (e *Engine) numericPattern(ds *dataset.Dataset, column string) (analysis.Pattern, bool) {
	values := ds.NumericValues(column)
	if len(values) == 0 {
		e.log.Warn("patterns: skipping all-null numeric column %s", column)
		return analysis.Pattern{}, false
	}

	_, _, lower, upper := IQRBounds(values)

	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}

	percentage := round2(float64(outliers) / float64(ds.RowCount()) * 100)
	normalRange := fmt.Sprintf("%.2f to %.2f", lower, upper)
	return analysis.NewNumericAnalysis(column, outliers, percentage, normalRange), true
}

// missingColumns lists every column with at least one null, in
// column-declaration order, not sorted by magnitude.
func missingColumns(ds *dataset.Dataset) []analysis.MissingColumn {
	var out []analysis.MissingColumn
	for _, column := range ds.Columns {
		count := ds.MissingCount(column)
		if count == 0 {
			continue
		}
		out = append(out, analysis.MissingColumn{
			Column:            column,
			MissingCount:      count,
			MissingPercentage: round2(float64(count) / float64(ds.RowCount()) * 100),
		})
	}
	return out
}
