package engine

import (
	"math"
	"sort"
)

// Quantile computes the q-th quantile (q in [0,1]) using linear
// interpolation between order statistics. The montanaflynn Percentile
// helper uses nearest-rank with midpoint averaging, which disagrees with
// the contract's interpolation on small samples, so quantiles are
// computed here directly.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// IQRBounds returns Q1, Q3 and the outlier fence [lower, upper] where
// lower = Q1 - 1.5*IQR and upper = Q3 + 1.5*IQR. A zero-variance column
// collapses both fences onto the median; that is accepted, not
// special-cased.
func IQRBounds(values []float64) (q1, q3, lower, upper float64) {
	q1 = Quantile(values, 0.25)
	q3 = Quantile(values, 0.75)
	iqr := q3 - q1
	lower = q1 - 1.5*iqr
	upper = q3 + 1.5*iqr
	return q1, q3, lower, upper
}
