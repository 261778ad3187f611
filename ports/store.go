package ports

import (
	"context"

	"datalens/domain/analysis"
	"datalens/domain/core"
)

// RunRecord is one completed pipeline run as persisted for downstream
// consumers.
type RunRecord struct {
	ID        core.RunID      `json:"id" db:"id"`
	CreatedAt core.Timestamp  `json:"created_at" db:"created_at"`
	OutputDir string          `json:"output_dir" db:"output_dir"`
	Result    analysis.Result `json:"result"`
}

// RunRepository persists completed runs. Absence of a configured
// repository never fails the pipeline; persistence is best-effort
// infrastructure around the file artifacts.
type RunRepository interface {
	Save(ctx context.Context, record RunRecord) error
	Latest(ctx context.Context) (*RunRecord, error)
}
