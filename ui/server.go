package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/core"
	"datalens/internal"
	"datalens/internal/artifacts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the read-only results server. It exposes the latest run's
// artifacts to downstream visualization and report collaborators; it
// computes nothing itself.
type Server struct {
	router  chi.Router
	baseDir string
	log     *internal.Logger
}

// NewServer creates the results server over an output base directory
func NewServer(baseDir string, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{baseDir: baseDir, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/runs/latest", func(r chi.Router) {
		r.Get("/", s.handleLatestResult)
		r.Get("/catalog", s.handleLatestCatalog)
		r.Get("/report", s.handleLatestReport)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the given port
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("results server listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatestResult(w http.ResponseWriter, r *http.Request) {
	var result analysis.Result
	if !s.loadLatest(w, artifacts.FileAnalysis, &result) {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLatestCatalog(w http.ResponseWriter, r *http.Request) {
	var catalog charts.Catalog
	if !s.loadLatest(w, artifacts.FileChartCatalog, &catalog) {
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	runDir, err := artifacts.LatestRunDir(s.baseDir)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := os.ReadFile(artifacts.OpenStore(runDir).Path(artifacts.FileReportHTML))
	if err != nil {
		s.writeError(w, core.ErrRunNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// loadLatest reads a JSON artifact from the most recent run directory
func (s *Server) loadLatest(w http.ResponseWriter, name string, v interface{}) bool {
	runDir, err := artifacts.LatestRunDir(s.baseDir)
	if err != nil {
		s.writeError(w, err)
		return false
	}
	if err := artifacts.OpenStore(runDir).LoadJSON(name, v); err != nil {
		s.writeError(w, err)
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrRunNotFound) {
		status = http.StatusNotFound
	}
	s.log.Warn("results server: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
