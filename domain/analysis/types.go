package analysis

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that survives JSON serialization when the value is
// NaN or infinite. encoding/json rejects bare NaN tokens, so undefined
// statistics serialize as null and null parses back into NaN.
type Float float64

// IsNaN reports whether the value is undefined
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

// MarshalJSON serializes NaN and ±Inf as null
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON parses null back into NaN
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// DescriptiveStats holds the per-column summary statistics. Count
// excludes nulls; std is the sample standard deviation (ddof=1) and is
// NaN when count < 2; an all-null column has count 0 and every other
// field NaN.
type DescriptiveStats struct {
	Count  int   `json:"count"`
	Mean   Float `json:"mean"`
	Median Float `json:"median"`
	Std    Float `json:"std"`
	Min    Float `json:"min"`
	Max    Float `json:"max"`
	Q25    Float `json:"q25"`
	Q75    Float `json:"q75"`
}

// CorrelationStrength labels the magnitude of a materialized correlation
type CorrelationStrength string

const (
	StrengthStrong   CorrelationStrength = "strong"
	StrengthModerate CorrelationStrength = "moderate"
)

// ClassifyStrength maps a coefficient to its strength label. Callers
// only materialize entries with |r| > 0.5, so no weaker label exists.
func ClassifyStrength(r float64) CorrelationStrength {
	if math.Abs(r) > 0.7 {
		return StrengthStrong
	}
	return StrengthModerate
}

// CorrelationEntry is one materialized strong-correlation pair. Both
// orderings of an unordered pair appear in the list; downstream top-N
// consumers rely on that duplication.
type CorrelationEntry struct {
	Variable1   string              `json:"variable1"`
	Variable2   string              `json:"variable2"`
	Correlation float64             `json:"correlation"`
	Strength    CorrelationStrength `json:"strength"`
}

// Correlations holds the full symmetric matrix plus the filtered list
type Correlations struct {
	Matrix             map[string]map[string]Float `json:"matrix"`
	StrongCorrelations []CorrelationEntry          `json:"strong_correlations"`
}

// EmptyCorrelations returns the well-formed empty result used when fewer
// than 2 numeric columns exist.
func EmptyCorrelations() Correlations {
	return Correlations{
		Matrix:             map[string]map[string]Float{},
		StrongCorrelations: []CorrelationEntry{},
	}
}

// PatternType tags the three pattern variants
type PatternType string

const (
	PatternCategoricalDistribution PatternType = "categorical_distribution"
	PatternNumericAnalysis         PatternType = "numeric_analysis"
	PatternMissingData             PatternType = "missing_data"
)

// MissingColumn reports null counts for one column
type MissingColumn struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// Pattern is a tagged variant over the three pattern forms. Fields not
// belonging to the tagged form are omitted from serialization, mirroring
// the heterogeneous pattern records of the pipeline contract.
type Pattern struct {
	Type PatternType `json:"type"`

	// categorical_distribution and numeric_analysis
	Column string `json:"column,omitempty"`

	// categorical_distribution
	UniqueValues    int            `json:"unique_values,omitempty"`
	MostCommon      string         `json:"most_common,omitempty"`
	MostCommonCount int            `json:"most_common_count,omitempty"`
	Distribution    map[string]int `json:"distribution,omitempty"`

	// numeric_analysis; pointers so a legitimate zero is not dropped
	OutliersCount      *int     `json:"outliers_count,omitempty"`
	OutliersPercentage *float64 `json:"outliers_percentage,omitempty"`
	NormalRange        string   `json:"normal_range,omitempty"`

	// missing_data
	ColumnsWithMissing []MissingColumn `json:"columns_with_missing,omitempty"`
}

// NewCategoricalDistribution builds a categorical distribution pattern
func NewCategoricalDistribution(column string, unique int, mostCommon string, mostCommonCount int, top map[string]int) Pattern {
	return Pattern{
		Type:            PatternCategoricalDistribution,
		Column:          column,
		UniqueValues:    unique,
		MostCommon:      mostCommon,
		MostCommonCount: mostCommonCount,
		Distribution:    top,
	}
}

// NewNumericAnalysis builds a numeric range/outlier pattern
func NewNumericAnalysis(column string, outliers int, percentage float64, normalRange string) Pattern {
	return Pattern{
		Type:               PatternNumericAnalysis,
		Column:             column,
		OutliersCount:      &outliers,
		OutliersPercentage: &percentage,
		NormalRange:        normalRange,
	}
}

// NewMissingData builds the missing-data summary pattern
func NewMissingData(columns []MissingColumn) Pattern {
	return Pattern{
		Type:               PatternMissingData,
		ColumnsWithMissing: columns,
	}
}

// Summary holds counts derived from the already-computed structures,
// never recomputed from the dataset.
type Summary struct {
	VariablesAnalyzed       int `json:"variables_analyzed"`
	StrongCorrelationsFound int `json:"strong_correlations_found"`
	PatternsIdentified      int `json:"patterns_identified"`
}

// Result is the engine's sole output contract. It is assembled once,
// fully self-describing, and never mutated after creation.
type Result struct {
	DescriptiveStatistics map[string]DescriptiveStats `json:"descriptive_statistics"`
	Correlations          Correlations                `json:"correlations"`
	Patterns              []Pattern                   `json:"patterns"`
	Summary               Summary                     `json:"summary"`
}

// TopCorrelation returns the strong-correlation entry with the largest
// absolute coefficient, for presentation layers.
func (r Result) TopCorrelation() (CorrelationEntry, bool) {
	if len(r.Correlations.StrongCorrelations) == 0 {
		return CorrelationEntry{}, false
	}
	top := r.Correlations.StrongCorrelations[0]
	for _, e := range r.Correlations.StrongCorrelations[1:] {
		if math.Abs(e.Correlation) > math.Abs(top.Correlation) {
			top = e
		}
	}
	return top, true
}
