package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"datalens/domain/core"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Artifact file names within a run directory
const (
	FileProcessedData = "processed_data.json"
	FileAnalysis      = "statistical_analysis.json"
	FileChartCatalog  = "visualization_catalog.json"
	FileReportMD      = "executive_report.md"
	FileReportHTML    = "executive_report.html"
)

// Store writes a run's artifacts into a timestamped directory under the
// output base. All writes go through a temp file and rename, so a
// failed run never leaves an artifact that looks complete.
type Store struct {
	runDir string
}

// NewStore creates the run directory for a pipeline run
func NewStore(baseDir string, at core.Timestamp) (*Store, error) {
	runDir := filepath.Join(baseDir, at.RunStamp())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &Store{runDir: runDir}, nil
}

// OpenStore wraps an existing run directory without creating anything
func OpenStore(runDir string) *Store {
	return &Store{runDir: runDir}
}

// RunDir returns the directory artifacts are written into
func (s *Store) RunDir() string {
	return s.runDir
}

// Path returns the absolute path of a named artifact file
func (s *Store) Path(name string) string {
	return filepath.Join(s.runDir, name)
}

// SaveJSON writes a JSON artifact atomically and returns its path
func (s *Store) SaveJSON(name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	path := s.Path(name)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// LoadJSON reads a JSON artifact back
func (s *Store) LoadJSON(name string, v interface{}) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return json.Unmarshal(data, v)
}

// SaveReport writes the markdown report and a rendered HTML version
func (s *Store) SaveReport(body string) (mdPath, htmlPath string, err error) {
	mdPath = s.Path(FileReportMD)
	if err = writeAtomic(mdPath, []byte(body)); err != nil {
		return "", "", err
	}

	htmlPath = s.Path(FileReportHTML)
	if err = writeAtomic(htmlPath, renderHTML(body)); err != nil {
		return "", "", err
	}
	return mdPath, htmlPath, nil
}

// renderHTML converts the markdown report into a standalone HTML page
func renderHTML(body string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Data Analysis Executive Report",
	})
	return markdown.ToHTML([]byte(body), p, renderer)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// LatestRunDir returns the most recent run directory under the output
// base. Run directories sort lexically because of the timestamp format.
func LatestRunDir(baseDir string) (string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: output directory %s", core.ErrRunNotFound, baseDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", core.ErrRunNotFound
	}
	sort.Strings(names)
	return filepath.Join(baseDir, names[len(names)-1]), nil
}
