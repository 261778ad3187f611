package tabular

import (
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/engine"
)

// Cleaner implements ports.Cleaner over Clean
type Cleaner struct {
	log *internal.Logger
}

// NewCleaner creates a dataset cleaner
func NewCleaner(logger *internal.Logger) *Cleaner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cleaner{log: logger}
}

// Clean implements ports.Cleaner
func (c *Cleaner) Clean(ds *dataset.Dataset, meta dataset.Metadata) (*dataset.Dataset, dataset.Metadata) {
	return Clean(ds, meta, c.log)
}

// Clean returns a new dataset without rows where every cell is null,
// plus metadata with the updated row count. The input is never mutated;
// column classification is carried over unchanged, never re-inferred.
//
// Outlier detection here is diagnostic only: counts outside the IQR
// fence are logged per numeric column, and every row is kept.
func Clean(ds *dataset.Dataset, meta dataset.Metadata, logger *internal.Logger) (*dataset.Dataset, dataset.Metadata) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	kept := make([]dataset.Row, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if !row.IsEmpty() {
			kept = append(kept, row)
		}
	}
	cleaned := &dataset.Dataset{Columns: ds.Columns, Rows: kept}

	for _, column := range meta.NumericColumns {
		values := cleaned.NumericValues(column)
		if len(values) == 0 {
			continue
		}
		_, _, lower, upper := engine.IQRBounds(values)
		outliers := 0
		for _, v := range values {
			if v < lower || v > upper {
				outliers++
			}
		}
		if outliers > 0 {
			logger.Info("found %d outliers in %s (keeping for analysis)", outliers, column)
		}
	}

	logger.Info("cleaned data: %d rows (removed %d empty rows)", cleaned.RowCount(), ds.RowCount()-cleaned.RowCount())

	meta.RowCount = cleaned.RowCount()
	return cleaned, meta
}
