package engine

import (
	"math"

	"datalens/domain/analysis"
	"datalens/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// correlationFloor is the minimum |r| for a pair to be materialized in
// the strong-correlations list.
const correlationFloor = 0.5

// Correlate computes the pairwise Pearson correlation matrix over the
// numeric columns. Observations are pairwise-complete: each pair uses
// the rows where both columns are non-null. With fewer than 2 numeric
// columns the empty result is returned, not an error.
func (e *Engine) Correlate(ds *dataset.Dataset, numericColumns []string) analysis.Correlations {
	if len(numericColumns) < 2 {
		e.log.Info("correlation analysis skipped: fewer than 2 numeric columns")
		return analysis.EmptyCorrelations()
	}

	matrix := make(map[string]map[string]analysis.Float, len(numericColumns))
	for _, column := range numericColumns {
		matrix[column] = make(map[string]analysis.Float, len(numericColumns))
	}

	for i, a := range numericColumns {
		for j, b := range numericColumns {
			switch {
			case i == j:
				// Unit diagonal by convention; undefined below 2 observations
				if len(ds.NumericValues(a)) >= 2 {
					matrix[a][b] = 1.0
				} else {
					matrix[a][b] = analysis.Float(math.NaN())
				}
			case j < i:
				// Symmetric by construction
				matrix[a][b] = matrix[b][a]
			default:
				matrix[a][b] = analysis.Float(pearson(ds.PairedValues(a, b)))
			}
		}
	}

	// Every ordered pair with |r| above the floor appears, so each
	// unordered pair shows up twice. Downstream top-N selection depends
	// on that duplication.
	strong := []analysis.CorrelationEntry{}
	for _, a := range numericColumns {
		for _, b := range numericColumns {
			if a == b {
				continue
			}
			r := float64(matrix[a][b])
			if math.IsNaN(r) || math.Abs(r) <= correlationFloor {
				continue
			}
			strong = append(strong, analysis.CorrelationEntry{
				Variable1:   a,
				Variable2:   b,
				Correlation: r,
				Strength:    analysis.ClassifyStrength(r),
			})
		}
	}

	e.log.Info("found %d strong correlations across %d numeric columns", len(strong), len(numericColumns))
	return analysis.Correlations{Matrix: matrix, StrongCorrelations: strong}
}

// pearson computes the product-moment coefficient over paired
// observations. NaN when fewer than 2 pairs exist or either side has
// zero variance.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
