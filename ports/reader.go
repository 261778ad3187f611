package ports

import (
	"datalens/domain/dataset"
)

// TableReader loads a raw tabular source into a typed dataset with its
// column classification. Implementations fail with core.ErrSourceNotFound
// when the source is unreadable and core.ErrTooFewNumericCols when fewer
// than 2 numeric columns are detected.
type TableReader interface {
	Read(source string) (*dataset.Dataset, dataset.Metadata, error)
}

// Cleaner removes fully-null rows and reports diagnostic outlier counts
// without dropping them. Value semantics: the input dataset is never
// mutated; classification in the metadata is carried over, only the row
// count changes.
type Cleaner interface {
	Clean(ds *dataset.Dataset, meta dataset.Metadata) (*dataset.Dataset, dataset.Metadata)
}
