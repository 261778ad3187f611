package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"datalens/domain/core"
	"datalens/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository and ensures
// its schema exists.
func NewRunRepository(db *sqlx.DB) (ports.RunRepository, error) {
	repo := &RunRepositoryImpl{db: db}
	if err := repo.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure analysis_runs schema: %w", err)
	}
	return repo, nil
}

func (r *RunRepositoryImpl) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			output_dir TEXT NOT NULL,
			variables_analyzed INT NOT NULL,
			strong_correlations INT NOT NULL,
			patterns_identified INT NOT NULL,
			result JSONB NOT NULL
		)
	`)
	return err
}

// Save persists a completed run with its full analysis payload
func (r *RunRepositoryImpl) Save(ctx context.Context, record ports.RunRecord) error {
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, created_at, output_dir, variables_analyzed, strong_correlations, patterns_identified, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID.String(), record.CreatedAt.Time(), record.OutputDir,
		record.Result.Summary.VariablesAnalyzed,
		record.Result.Summary.StrongCorrelationsFound,
		record.Result.Summary.PatternsIdentified,
		payload)
	return err
}

// Latest returns the most recently created run
func (r *RunRepositoryImpl) Latest(ctx context.Context) (*ports.RunRecord, error) {
	var row struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		OutputDir string    `db:"output_dir"`
		Result    []byte    `db:"result"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT id, created_at, output_dir, result
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	record := ports.RunRecord{
		ID:        core.RunID(row.ID),
		CreatedAt: core.NewTimestamp(row.CreatedAt),
		OutputDir: row.OutputDir,
	}
	if err := json.Unmarshal(row.Result, &record.Result); err != nil {
		return nil, fmt.Errorf("unmarshal analysis result: %w", err)
	}
	return &record, nil
}
