package engine

import (
	"math"
	"testing"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	// Scenario: the canonical outlier column. With linear interpolation
	// the quartiles land on whole observations here.
	values := []float64{1, 2, 3, 4, 1000}

	if q1 := Quantile(values, 0.25); q1 != 2 {
		t.Errorf("Expected Q1=2, got %v", q1)
	}
	if q3 := Quantile(values, 0.75); q3 != 4 {
		t.Errorf("Expected Q3=4, got %v", q3)
	}
	if median := Quantile(values, 0.5); median != 3 {
		t.Errorf("Expected median=3, got %v", median)
	}
}

func TestQuantile_InterpolatesBetweenObservations(t *testing.T) {
	// Four observations: Q1 sits three quarters of the way from the
	// first to the second order statistic.
	values := []float64{1, 2, 3, 4}

	if q1 := Quantile(values, 0.25); q1 != 1.75 {
		t.Errorf("Expected Q1=1.75, got %v", q1)
	}
	if q3 := Quantile(values, 0.75); q3 != 3.25 {
		t.Errorf("Expected Q3=3.25, got %v", q3)
	}
}

func TestQuantile_UnsortedInput(t *testing.T) {
	values := []float64{4, 1, 3, 1000, 2}

	if q3 := Quantile(values, 0.75); q3 != 4 {
		t.Errorf("Expected Q3=4 on unsorted input, got %v", q3)
	}
	// Input must not be reordered
	if values[0] != 4 || values[3] != 1000 {
		t.Errorf("Quantile mutated its input: %v", values)
	}
}

func TestQuantile_DegenerateSizes(t *testing.T) {
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Error("Expected NaN for empty input")
	}
	if q := Quantile([]float64{7}, 0.25); q != 7 {
		t.Errorf("Expected single observation to be its own quantile, got %v", q)
	}
}

func TestIQRBounds_Fences(t *testing.T) {
	// IQR=2 puts the fences at -1 and 7, leaving 1000 outside
	q1, q3, lower, upper := IQRBounds([]float64{1, 2, 3, 4, 1000})

	if q1 != 2 || q3 != 4 {
		t.Errorf("Expected quartiles 2 and 4, got %v and %v", q1, q3)
	}
	if lower != -1 {
		t.Errorf("Expected lower fence -1, got %v", lower)
	}
	if upper != 7 {
		t.Errorf("Expected upper fence 7, got %v", upper)
	}
}

func TestIQRBounds_ZeroVariance(t *testing.T) {
	// Both fences collapse onto the constant value
	_, _, lower, upper := IQRBounds([]float64{5, 5, 5, 5})

	if lower != 5 || upper != 5 {
		t.Errorf("Expected collapsed fences at 5, got [%v, %v]", lower, upper)
	}
}
