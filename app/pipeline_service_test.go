package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"datalens/adapters/llm/template"
	"datalens/domain/dataset"
	"datalens/internal/artifacts"
	"datalens/internal/testkit"
	"datalens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReader serves a fixed dataset regardless of source
type stubReader struct {
	ds   *dataset.Dataset
	meta dataset.Metadata
	err  error
}

func (r *stubReader) Read(string) (*dataset.Dataset, dataset.Metadata, error) {
	if r.err != nil {
		return nil, dataset.Metadata{}, r.err
	}
	return r.ds, r.meta, nil
}

// passCleaner keeps every row
type passCleaner struct{}

func (passCleaner) Clean(ds *dataset.Dataset, meta dataset.Metadata) (*dataset.Dataset, dataset.Metadata) {
	return ds, meta
}

// stubNarrator returns a canned body or error
type stubNarrator struct {
	body string
	err  error
}

func (n *stubNarrator) Narrate(context.Context, ports.ReportContext) (string, error) {
	return n.body, n.err
}

// recordingRepo captures saved run records
type recordingRepo struct {
	saved []ports.RunRecord
	err   error
}

func (r *recordingRepo) Save(_ context.Context, record ports.RunRecord) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, record)
	return nil
}

func (r *recordingRepo) Latest(context.Context) (*ports.RunRecord, error) {
	if len(r.saved) == 0 {
		return nil, errors.New("no runs")
	}
	return &r.saved[len(r.saved)-1], nil
}

func businessReader() *stubReader {
	ds := testkit.NewDataset([]string{"region", "revenue", "cost"}, map[string][]interface{}{
		"region":  {"North", "South", "East", "West"},
		"revenue": {100.0, 200.0, 300.0, 400.0},
		"cost":    {50.0, 100.0, 150.0, 200.0},
	})
	return &stubReader{ds: ds, meta: testkit.NewMetadata(ds, []string{"revenue", "cost"}, []string{"region"})}
}

func TestRun_WritesAllArtifacts(t *testing.T) {
	base := t.TempDir()
	service := NewPipelineService(businessReader(), passCleaner{}, nil, template.NewNarrator(), nil, base, nil)

	out, err := service.Run(context.Background(), "ignored.csv")
	require.NoError(t, err)

	for _, name := range []string{
		artifacts.FileProcessedData,
		artifacts.FileAnalysis,
		artifacts.FileChartCatalog,
		artifacts.FileReportMD,
		artifacts.FileReportHTML,
	} {
		_, statErr := os.Stat(filepath.Join(out.OutputDir, name))
		assert.NoError(t, statErr, "expected artifact %s", name)
	}
	assert.Len(t, out.Artifacts, 4)
	assert.Equal(t, "template", out.Narrator)

	// Perfectly correlated columns surface in the analysis
	assert.Equal(t, 2, out.Result.Summary.VariablesAnalyzed)
	assert.Equal(t, 2, out.Result.Summary.StrongCorrelationsFound)
}

func TestRun_UsesLLMNarratorWhenAvailable(t *testing.T) {
	primary := &stubNarrator{body: "# Executive Report\n\nLLM content.\n"}
	service := NewPipelineService(businessReader(), passCleaner{}, primary, template.NewNarrator(), nil, t.TempDir(), nil)

	out, err := service.Run(context.Background(), "ignored.csv")
	require.NoError(t, err)
	assert.Equal(t, "llm", out.Narrator)

	body, readErr := os.ReadFile(filepath.Join(out.OutputDir, artifacts.FileReportMD))
	require.NoError(t, readErr)
	assert.Equal(t, primary.body, string(body))
}

func TestRun_FallsBackToTemplateOnNarratorError(t *testing.T) {
	primary := &stubNarrator{err: errors.New("endpoint unreachable")}
	service := NewPipelineService(businessReader(), passCleaner{}, primary, template.NewNarrator(), nil, t.TempDir(), nil)

	out, err := service.Run(context.Background(), "ignored.csv")
	require.NoError(t, err, "narrator failure must never fail the run")
	assert.Equal(t, "template", out.Narrator)

	body, readErr := os.ReadFile(filepath.Join(out.OutputDir, artifacts.FileReportMD))
	require.NoError(t, readErr)
	assert.Contains(t, string(body), "# Data Analysis Executive Report")
}

func TestRun_FallsBackOnEmptyNarration(t *testing.T) {
	// A blank LLM response counts as failure
	primary := &stubNarrator{body: ""}
	service := NewPipelineService(businessReader(), passCleaner{}, primary, template.NewNarrator(), nil, t.TempDir(), nil)

	out, err := service.Run(context.Background(), "ignored.csv")
	require.NoError(t, err)
	assert.Equal(t, "template", out.Narrator)
}

func TestRun_ReaderErrorIsFatal(t *testing.T) {
	reader := &stubReader{err: errors.New("file corrupted")}
	service := NewPipelineService(reader, passCleaner{}, nil, template.NewNarrator(), nil, t.TempDir(), nil)

	_, err := service.Run(context.Background(), "bad.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file corrupted")
}

func TestRun_PersistsRunRecord(t *testing.T) {
	repo := &recordingRepo{}
	service := NewPipelineService(businessReader(), passCleaner{}, nil, template.NewNarrator(), repo, t.TempDir(), nil)

	out, err := service.Run(context.Background(), "ignored.csv")
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, out.ID, repo.saved[0].ID)
	assert.Equal(t, out.OutputDir, repo.saved[0].OutputDir)
	assert.Equal(t, out.Result.Summary, repo.saved[0].Result.Summary)
}

func TestRun_PersistenceFailureIsNonFatal(t *testing.T) {
	repo := &recordingRepo{err: errors.New("connection refused")}
	service := NewPipelineService(businessReader(), passCleaner{}, nil, template.NewNarrator(), repo, t.TempDir(), nil)

	_, err := service.Run(context.Background(), "ignored.csv")
	assert.NoError(t, err, "a broken repository must never fail the run")
}

func TestAnalyze_DeterministicAcrossRuns(t *testing.T) {
	reader := businessReader()
	service := NewPipelineService(reader, passCleaner{}, nil, template.NewNarrator(), nil, t.TempDir(), nil)

	first, err := service.Analyze(context.Background(), reader.ds, reader.meta)
	require.NoError(t, err)
	second, err := service.Analyze(context.Background(), reader.ds, reader.meta)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
