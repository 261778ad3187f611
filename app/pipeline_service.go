package app

import (
	"context"
	"fmt"

	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/artifacts"
	chartplan "datalens/internal/charts"
	"datalens/internal/engine"
	"datalens/ports"

	"golang.org/x/sync/errgroup"
)

// PipelineService orchestrates a full analysis run: load, clean,
// analyze, plan charts, narrate, and persist artifacts. Stage ordering
// is a strict dependency chain except for the three analysis stages,
// which read the same immutable cleaned dataset and run concurrently.
type PipelineService struct {
	reader   ports.TableReader
	cleaner  ports.Cleaner
	primary  ports.Narrator // optional LLM narrator; nil means template only
	fallback ports.Narrator // deterministic template, always available
	runs     ports.RunRepository // optional; nil disables persistence
	engine   *engine.Engine
	baseDir  string
	log      *internal.Logger
}

// NewPipelineService wires a pipeline service
func NewPipelineService(reader ports.TableReader, cleaner ports.Cleaner, primary, fallback ports.Narrator, runs ports.RunRepository, baseDir string, logger *internal.Logger) *PipelineService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PipelineService{
		reader:   reader,
		cleaner:  cleaner,
		primary:  primary,
		fallback: fallback,
		runs:     runs,
		engine:   engine.New(logger),
		baseDir:  baseDir,
		log:      logger,
	}
}

// RunOutput summarizes a completed pipeline run
type RunOutput struct {
	ID        core.RunID
	OutputDir string
	Metadata  dataset.Metadata
	Result    analysis.Result
	Catalog   charts.Catalog
	Artifacts []core.Artifact
	Narrator  string // "llm" or "template"
}

// Run executes the pipeline against a source file. Loader and validator
// errors are fatal and returned as-is; a failed run leaves no artifact
// that looks complete.
func (s *PipelineService) Run(ctx context.Context, source string) (*RunOutput, error) {
	runID := core.RunID(core.NewID())
	startedAt := core.Now()

	store, err := artifacts.NewStore(s.baseDir, startedAt)
	if err != nil {
		return nil, err
	}
	s.log.Info("run %s writing to %s", runID, store.RunDir())

	// Stage 1: load, classify, validate, clean
	raw, meta, err := s.reader.Read(source)
	if err != nil {
		return nil, err
	}
	ds, meta := s.cleaner.Clean(raw, meta)

	processedPath, err := store.SaveJSON(artifacts.FileProcessedData, dataset.Processed{Metadata: meta, Data: ds.Rows})
	if err != nil {
		return nil, err
	}

	// Stage 2: the three analysis stages share the immutable cleaned
	// dataset and write disjoint outputs, so they run concurrently.
	result, err := s.Analyze(ctx, ds, meta)
	if err != nil {
		return nil, err
	}

	analysisPath, err := store.SaveJSON(artifacts.FileAnalysis, result)
	if err != nil {
		return nil, err
	}

	// Stage 3: chart selection for the rendering collaborator
	catalog := chartplan.Plan(result, meta)
	catalogPath, err := store.SaveJSON(artifacts.FileChartCatalog, catalog)
	if err != nil {
		return nil, err
	}

	// Stage 4: executive report, LLM first with mandatory template fallback
	rc := ports.ReportContext{Metadata: meta, Result: result, Catalog: catalog}
	body, narratorUsed := s.narrate(ctx, rc)
	reportPath, _, err := store.SaveReport(body)
	if err != nil {
		return nil, err
	}

	out := &RunOutput{
		ID:        runID,
		OutputDir: store.RunDir(),
		Metadata:  meta,
		Result:    result,
		Catalog:   catalog,
		Narrator:  narratorUsed,
		Artifacts: []core.Artifact{
			{ID: core.NewID(), Kind: core.ArtifactProcessedData, Path: processedPath, CreatedAt: startedAt},
			{ID: core.NewID(), Kind: core.ArtifactAnalysisResult, Path: analysisPath, CreatedAt: startedAt},
			{ID: core.NewID(), Kind: core.ArtifactChartCatalog, Path: catalogPath, CreatedAt: startedAt},
			{ID: core.NewID(), Kind: core.ArtifactReport, Path: reportPath, CreatedAt: startedAt},
		},
	}

	s.persist(ctx, ports.RunRecord{
		ID:        runID,
		CreatedAt: startedAt,
		OutputDir: store.RunDir(),
		Result:    result,
	})

	s.log.Info("run %s complete: %d variables, %d strong correlations, %d patterns",
		runID, result.Summary.VariablesAnalyzed, result.Summary.StrongCorrelationsFound, result.Summary.PatternsIdentified)
	return out, nil
}

// Analyze runs the three analysis stages over a cleaned dataset and
// aggregates their outputs. Exposed separately so the stage CLI can
// re-run analysis from a persisted processed artifact.
func (s *PipelineService) Analyze(ctx context.Context, ds *dataset.Dataset, meta dataset.Metadata) (analysis.Result, error) {
	var (
		stats    map[string]analysis.DescriptiveStats
		corrs    analysis.Correlations
		patterns []analysis.Pattern
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats = s.engine.Describe(ds, meta.NumericColumns)
		return nil
	})
	g.Go(func() error {
		corrs = s.engine.Correlate(ds, meta.NumericColumns)
		return nil
	})
	g.Go(func() error {
		patterns = s.engine.DetectPatterns(ds, meta)
		return nil
	})
	if err := g.Wait(); err != nil {
		return analysis.Result{}, fmt.Errorf("analysis stages: %w", err)
	}

	return engine.Aggregate(stats, corrs, patterns), nil
}

// narrate tries the primary narrator once and falls back to the
// template on any failure. The fallback path is mandatory, not
// best-effort: a missing credential or unreachable endpoint must never
// fail the pipeline.
func (s *PipelineService) narrate(ctx context.Context, rc ports.ReportContext) (string, string) {
	if s.primary != nil {
		body, err := s.primary.Narrate(ctx, rc)
		if err == nil && body != "" {
			s.log.Info("generated report using LLM narrator")
			return body, "llm"
		}
		s.log.Warn("LLM narrator failed (%v), falling back to template", err)
	}

	body, err := s.fallback.Narrate(ctx, rc)
	if err != nil {
		// The template narrator cannot fail; guard anyway
		s.log.Error("template narrator failed: %v", err)
		return "# Data Analysis Executive Report\n\nReport generation failed.\n", "template"
	}
	return body, "template"
}

// persist stores the run record when a repository is configured.
// Persistence failures are logged, never fatal.
func (s *PipelineService) persist(ctx context.Context, record ports.RunRecord) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, record); err != nil {
		s.log.Warn("failed to persist run %s: %v", record.ID, err)
	}
}
