package ports

import (
	"context"

	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/dataset"
)

// ReportContext carries everything a narrator may draw on: the dataset
// metadata, the analysis contract, and the visualization catalog.
type ReportContext struct {
	Metadata dataset.Metadata
	Result   analysis.Result
	Catalog  charts.Catalog
}

// Narrator produces the executive report body in markdown. The LLM
// narrator may fail (missing credential, transport error, empty
// response); the template narrator never does and is the load-bearing
// default the pipeline falls back to.
type Narrator interface {
	Narrate(ctx context.Context, rc ReportContext) (string, error)
}
