package engine

import (
	"math"

	"datalens/internal"
)

// Engine computes the statistical analysis stages over a cleaned dataset.
// All methods are pure with respect to their inputs: the dataset is read,
// never mutated, so the stages may run concurrently.
type Engine struct {
	log *internal.Logger
}

// New creates an analysis engine
func New(logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{log: logger}
}

// round2 rounds to 2 decimal places, the precision the contract fixes
// for percentages.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
