package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestClassifyStrength(t *testing.T) {
	cases := []struct {
		r    float64
		want CorrelationStrength
	}{
		{0.71, StrengthStrong},
		{-0.9, StrengthStrong},
		{0.7, StrengthModerate},
		{0.51, StrengthModerate},
		{-0.6, StrengthModerate},
	}
	for _, tc := range cases {
		if got := ClassifyStrength(tc.r); got != tc.want {
			t.Errorf("ClassifyStrength(%v): expected %s, got %s", tc.r, tc.want, got)
		}
	}
}

func TestFloat_NaNRoundTrip(t *testing.T) {
	data, err := json.Marshal(Float(math.NaN()))
	if err != nil {
		t.Fatalf("marshal NaN: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null, got %s", data)
	}

	var f Float
	if err := json.Unmarshal([]byte("null"), &f); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !f.IsNaN() {
		t.Errorf("Expected NaN from null, got %v", f)
	}
}

func TestPattern_ZeroOutlierCountSerialized(t *testing.T) {
	// A legitimate zero count must survive omitempty
	data, err := json.Marshal(NewNumericAnalysis("flat", 0, 0, "5.00 to 5.00"))
	if err != nil {
		t.Fatalf("marshal pattern: %v", err)
	}
	if !strings.Contains(string(data), `"outliers_count":0`) {
		t.Errorf("Zero outlier count dropped: %s", data)
	}
	if !strings.Contains(string(data), `"outliers_percentage":0`) {
		t.Errorf("Zero percentage dropped: %s", data)
	}
}

func TestPattern_VariantFieldsOmitted(t *testing.T) {
	// A categorical pattern never carries numeric-analysis fields
	data, err := json.Marshal(NewCategoricalDistribution("region", 2, "North", 3, map[string]int{"North": 3}))
	if err != nil {
		t.Fatalf("marshal pattern: %v", err)
	}
	if strings.Contains(string(data), "outliers_count") || strings.Contains(string(data), "columns_with_missing") {
		t.Errorf("Foreign variant fields serialized: %s", data)
	}
}
