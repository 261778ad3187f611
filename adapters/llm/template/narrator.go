package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"datalens/domain/analysis"
	"datalens/ports"
)

// Narrator renders the executive report from a deterministic template.
// It never fails and is the load-bearing default when no LLM endpoint
// is configured or the endpoint errors.
type Narrator struct {
	// Clock is overridable so report output is reproducible in tests
	Clock func() time.Time
}

// NewNarrator creates the template narrator
func NewNarrator() *Narrator {
	return &Narrator{Clock: time.Now}
}

// Narrate assembles the markdown report from the analysis contract
func (n *Narrator) Narrate(_ context.Context, rc ports.ReportContext) (string, error) {
	meta := rc.Metadata
	result := rc.Result
	strong := result.Correlations.StrongCorrelations

	var b strings.Builder
	fmt.Fprintf(&b, "# Data Analysis Executive Report\n\n")
	fmt.Fprintf(&b, "*Generated on %s*\n\n", n.Clock().Format("January 2, 2006 at 3:04 PM"))

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "This analysis examined a dataset containing **%d records** across **%d variables**. ", meta.RowCount, meta.ColumnCount)
	fmt.Fprintf(&b, "Our statistical analysis and visualization pipeline identified key relationships and patterns within the data.\n\n")

	numericPreview := meta.NumericColumns
	ellipsis := ""
	if len(numericPreview) > 3 {
		numericPreview = numericPreview[:3]
		ellipsis = "..."
	}
	fmt.Fprintf(&b, "The dataset includes %d numeric variables (%s%s) and %d categorical variables. ",
		len(meta.NumericColumns), strings.Join(numericPreview, ", "), ellipsis, len(meta.CategoricalColumns))
	fmt.Fprintf(&b, "Through correlation analysis, we discovered **%d significant relationships** between variables", len(strong))
	if top, ok := result.TopCorrelation(); ok {
		fmt.Fprintf(&b, ", with the strongest correlation being %.3f between %s and %s", top.Correlation, top.Variable1, top.Variable2)
	}
	fmt.Fprintf(&b, ".\n\n")

	fmt.Fprintf(&b, "## Key Insights\n\n")
	fmt.Fprintf(&b, "### Statistical Findings\n\n")
	for i, column := range meta.NumericColumns {
		if i == 3 {
			break
		}
		s, ok := result.DescriptiveStatistics[column]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: Mean = %.2f, Range = [%.2f to %.2f], Std Dev = %.2f\n",
			column, float64(s.Mean), float64(s.Min), float64(s.Max), float64(s.Std))
	}

	if len(strong) > 0 {
		fmt.Fprintf(&b, "\n### Correlation Analysis\n\n")
		for i, corr := range strong {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "- **%s** and **%s** show a %s correlation (%.3f)\n",
				corr.Variable1, corr.Variable2, strengthLabel(corr), corr.Correlation)
		}
	}

	if len(result.Patterns) > 0 {
		fmt.Fprintf(&b, "\n### Pattern Analysis\n\n")
		for i, pattern := range result.Patterns {
			if i == 2 {
				break
			}
			switch pattern.Type {
			case analysis.PatternCategoricalDistribution:
				fmt.Fprintf(&b, "- **%s**: %d unique categories, most common is '%s' (%d occurrences)\n",
					pattern.Column, pattern.UniqueValues, pattern.MostCommon, pattern.MostCommonCount)
			case analysis.PatternNumericAnalysis:
				if pattern.OutliersPercentage != nil {
					fmt.Fprintf(&b, "- **%s**: %.2f%% outliers detected outside normal range %s\n",
						pattern.Column, *pattern.OutliersPercentage, pattern.NormalRange)
				}
			}
		}
	}

	fmt.Fprintf(&b, "\n## Data Quality Assessment\n\n")
	fmt.Fprintf(&b, "- **Data Completeness**: Dataset contains %d records\n", meta.RowCount)
	fmt.Fprintf(&b, "- **Variable Coverage**: %d numeric and %d categorical variables analyzed\n",
		len(meta.NumericColumns), len(meta.CategoricalColumns))
	if missing := missingPattern(result.Patterns); missing != nil {
		fmt.Fprintf(&b, "- **Missing Data**: %d columns have missing values\n", len(missing.ColumnsWithMissing))
	} else {
		fmt.Fprintf(&b, "- **No Missing Data**: All variables are complete\n")
	}

	fmt.Fprintf(&b, "\n## Recommendations for Action\n\n")
	fmt.Fprintf(&b, "1. **Focus on Strong Correlations**: Investigate the business implications of the %d significant correlations identified\n", len(strong))
	if missingPattern(result.Patterns) != nil {
		fmt.Fprintf(&b, "2. **Address Data Quality**: Review missing data patterns in key variables\n")
	} else {
		fmt.Fprintf(&b, "2. **Address Data Quality**: Maintain current data collection standards\n")
	}
	fmt.Fprintf(&b, "3. **Leverage Patterns**: Use the identified categorical distributions for targeted analysis\n")

	fmt.Fprintf(&b, "\n## Technical Notes\n\n")
	fmt.Fprintf(&b, "- **Analysis Pipeline**: %d patterns identified across %d variables\n",
		result.Summary.PatternsIdentified, meta.ColumnCount)
	fmt.Fprintf(&b, "- **Visualizations**: %d charts planned for rendering\n", rc.Catalog.VisualizationsCreated)
	fmt.Fprintf(&b, "- **Statistical Methods**: Pearson correlation, descriptive statistics, IQR outlier detection\n")

	fmt.Fprintf(&b, "\n---\n\n*This report was generated by an automated analysis pipeline.*\n")
	return b.String(), nil
}

func strengthLabel(e analysis.CorrelationEntry) string {
	switch {
	case e.Correlation > 0.7:
		return "strong positive"
	case e.Correlation < -0.7:
		return "strong negative"
	default:
		return "moderate"
	}
}

func missingPattern(patterns []analysis.Pattern) *analysis.Pattern {
	for i := range patterns {
		if patterns[i].Type == analysis.PatternMissingData {
			return &patterns[i]
		}
	}
	return nil
}
