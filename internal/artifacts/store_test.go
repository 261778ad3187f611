package artifacts

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datalens/domain/analysis"
	"datalens/domain/core"
)

func TestStore_JSONRoundTrip(t *testing.T) {
	base := t.TempDir()
	at := core.NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	store, err := NewStore(base, at)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if filepath.Base(store.RunDir()) != "20240102_030405" {
		t.Errorf("Unexpected run directory name: %s", store.RunDir())
	}

	stats := map[string]analysis.DescriptiveStats{
		"revenue": {Count: 3, Mean: 30, Std: analysis.Float(math.NaN())},
	}
	if _, err := store.SaveJSON(FileAnalysis, stats); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	var loaded map[string]analysis.DescriptiveStats
	if err := OpenStore(store.RunDir()).LoadJSON(FileAnalysis, &loaded); err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded["revenue"].Count != 3 || loaded["revenue"].Mean != 30 {
		t.Errorf("Round trip lost data: %+v", loaded["revenue"])
	}
	// NaN serializes as null and comes back as NaN
	if !loaded["revenue"].Std.IsNaN() {
		t.Errorf("Expected NaN std after round trip, got %v", loaded["revenue"].Std)
	}
}

func TestStore_NaNSerializesAsNull(t *testing.T) {
	store, err := NewStore(t.TempDir(), core.Now())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	path, err := store.SaveJSON(FileAnalysis, map[string]analysis.Float{
		"undefined": analysis.Float(math.NaN()),
	})
	if err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(data), `"undefined": null`) {
		t.Errorf("Expected NaN as null in JSON, got %s", data)
	}
}

func TestStore_SaveReportRendersHTML(t *testing.T) {
	store, err := NewStore(t.TempDir(), core.Now())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	mdPath, htmlPath, err := store.SaveReport("# Executive Summary\n\nAll good.\n")
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.HasPrefix(string(md), "# Executive Summary") {
		t.Errorf("Markdown artifact altered: %s", md)
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "<h1") || !strings.Contains(string(html), "Executive Summary") {
		t.Errorf("Expected rendered heading in HTML, got %s", html)
	}
}

func TestStore_NoPartialArtifactsLeftBehind(t *testing.T) {
	store, err := NewStore(t.TempDir(), core.Now())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := store.SaveJSON(FileChartCatalog, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	entries, err := os.ReadDir(store.RunDir())
	if err != nil {
		t.Fatalf("read run dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestLatestRunDir_PicksNewestStamp(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"20240101_000000", "20240301_000000", "20240201_000000"} {
		if err := os.MkdirAll(filepath.Join(base, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	latest, err := LatestRunDir(base)
	if err != nil {
		t.Fatalf("LatestRunDir failed: %v", err)
	}
	if filepath.Base(latest) != "20240301_000000" {
		t.Errorf("Expected newest run, got %s", latest)
	}
}

func TestLatestRunDir_EmptyBase(t *testing.T) {
	_, err := LatestRunDir(t.TempDir())
	if !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}
