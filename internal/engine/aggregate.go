package engine

import (
	"datalens/domain/analysis"
)

// Aggregate assembles the final analysis result. Pure composition: the
// summary block is derived from the already-computed structures, never
// recomputed from the dataset, so it cannot drift from the payload.
func Aggregate(stats map[string]analysis.DescriptiveStats, correlations analysis.Correlations, patterns []analysis.Pattern) analysis.Result {
	if stats == nil {
		stats = map[string]analysis.DescriptiveStats{}
	}
	if correlations.Matrix == nil {
		correlations = analysis.EmptyCorrelations()
	}
	if patterns == nil {
		patterns = []analysis.Pattern{}
	}
	return analysis.Result{
		DescriptiveStatistics: stats,
		Correlations:          correlations,
		Patterns:              patterns,
		Summary: analysis.Summary{
			VariablesAnalyzed:       len(stats),
			StrongCorrelationsFound: len(correlations.StrongCorrelations),
			PatternsIdentified:      len(patterns),
		},
	}
}
