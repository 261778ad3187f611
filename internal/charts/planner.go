package charts

import (
	"fmt"
	"math"
	"sort"

	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/core"
	"datalens/domain/dataset"
)

// maxScatterPlots caps how many strong-correlation pairs get a scatter
// chart.
const maxScatterPlots = 3

// maxBarCategories is the distinct-value ceiling for a categorical bar
// chart to stay readable.
const maxBarCategories = 10

// Plan selects which charts the rendering collaborator should produce
// for an analysis result. Selection only: no pixels are drawn here. An
// empty strong-correlation list or absent patterns simply yield fewer
// chart specs, never an error.
func Plan(result analysis.Result, meta dataset.Metadata) charts.Catalog {
	specs := []charts.Spec{}

	if len(meta.NumericColumns) >= 2 {
		specs = append(specs, charts.Spec{
			Name:    "correlation_heatmap",
			Kind:    charts.KindCorrelationHeatmap,
			Title:   "Correlation Matrix Heatmap",
			Columns: meta.NumericColumns,
		})
	}

	if len(meta.NumericColumns) > 0 {
		specs = append(specs, charts.Spec{
			Name:    "distributions",
			Kind:    charts.KindDistributions,
			Title:   "Variable Distributions",
			Columns: meta.NumericColumns,
		})
	}

	for i, pair := range topPairs(result.Correlations.StrongCorrelations, maxScatterPlots) {
		specs = append(specs, charts.Spec{
			Name:    fmt.Sprintf("scatter_%d", i+1),
			Kind:    charts.KindScatter,
			Title:   fmt.Sprintf("%s vs %s (r=%.2f)", pair.Variable1, pair.Variable2, pair.Correlation),
			Columns: []string{pair.Variable1, pair.Variable2},
		})
	}

	for _, pattern := range result.Patterns {
		if pattern.Type != analysis.PatternCategoricalDistribution {
			continue
		}
		if pattern.UniqueValues > maxBarCategories {
			continue
		}
		specs = append(specs, charts.Spec{
			Name:    "categorical_" + pattern.Column,
			Kind:    charts.KindCategoricalBars,
			Title:   fmt.Sprintf("Distribution of %s", pattern.Column),
			Columns: []string{pattern.Column},
		})
	}

	specs = append(specs, charts.Spec{
		Name:  "summary_dashboard",
		Kind:  charts.KindSummaryDashboard,
		Title: "Analysis Summary Dashboard",
	})

	return charts.Catalog{
		CreatedAt:             core.Now(),
		Visualizations:        specs,
		VisualizationsCreated: len(specs),
	}
}

// topPairs dedupes the direction-doubled strong-correlation list down to
// unordered pairs and returns the strongest few by absolute coefficient.
// The contract's list keeps both orderings; chart selection is one of
// the consumers that collapses them.
func topPairs(entries []analysis.CorrelationEntry, limit int) []analysis.CorrelationEntry {
	seen := map[string]bool{}
	unique := []analysis.CorrelationEntry{}
	for _, e := range entries {
		a, b := e.Variable1, e.Variable2
		if b < a {
			a, b = b, a
		}
		key := a + "\x00" + b
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return math.Abs(unique[i].Correlation) > math.Abs(unique[j].Correlation)
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
