package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrSourceNotFound = fmt.Errorf("%w: data source", ErrNotFound)
	ErrRunNotFound    = fmt.Errorf("%w: run", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Validation errors
	ErrValidation          = errors.New("validation failed")
	ErrTooFewNumericCols   = fmt.Errorf("%w: need at least 2 numeric columns", ErrValidation)
	ErrEmptyDataset        = fmt.Errorf("%w: dataset has no rows", ErrValidation)
	ErrRaggedRows          = fmt.Errorf("%w: rows disagree on column set", ErrValidation)
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrNonNumericColumn    = errors.New("column is not numeric")
	ErrNonCategoricalValue = errors.New("value is not categorical")
)
