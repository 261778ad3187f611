package engine

import (
	"math"

	"datalens/domain/analysis"
	"datalens/domain/dataset"

	"github.com/montanaflynn/stats"
)

// Describe computes descriptive statistics for each numeric column.
// Nulls are excluded from every aggregate; an all-null column yields
// count=0 with every other field NaN rather than an error. A failure in
// one column never aborts the others.
func (e *Engine) Describe(ds *dataset.Dataset, numericColumns []string) map[string]analysis.DescriptiveStats {
	out := make(map[string]analysis.DescriptiveStats, len(numericColumns))
	for _, column := range numericColumns {
		entry, err := describeColumn(ds.NumericValues(column))
		if err != nil {
			e.log.Warn("describe: skipping column %s: %v", column, err)
			continue
		}
		out[column] = entry
	}
	e.log.Info("computed descriptive statistics for %d numeric columns", len(out))
	return out
}

func describeColumn(values []float64) (analysis.DescriptiveStats, error) {
	nan := analysis.Float(math.NaN())
	entry := analysis.DescriptiveStats{
		Count:  len(values),
		Mean:   nan,
		Median: nan,
		Std:    nan,
		Min:    nan,
		Max:    nan,
		Q25:    nan,
		Q75:    nan,
	}
	if len(values) == 0 {
		return entry, nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return entry, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return entry, err
	}
	min, err := stats.Min(values)
	if err != nil {
		return entry, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return entry, err
	}

	entry.Mean = analysis.Float(mean)
	entry.Median = analysis.Float(median)
	entry.Min = analysis.Float(min)
	entry.Max = analysis.Float(max)
	entry.Q25 = analysis.Float(Quantile(values, 0.25))
	entry.Q75 = analysis.Float(Quantile(values, 0.75))

	// Sample standard deviation (ddof=1) is undefined below 2 observations
	if len(values) >= 2 {
		std, err := stats.StandardDeviationSample(values)
		if err != nil {
			return entry, err
		}
		entry.Std = analysis.Float(std)
	}

	return entry, nil
}
