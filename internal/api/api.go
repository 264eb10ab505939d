// Package api serves project health and branch reports over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kamilpajak/pulse/internal/logging"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/rs/zerolog"
)

// RunStore reads stored branch runs.
type RunStore interface {
	ListBranchRuns(ctx context.Context, projectID, branchID string, limit int) ([]models.BranchRun, error)
}

// Server is the API server.
type Server struct {
	projects *projects.Service
	runs     RunStore
	mux      *http.ServeMux
	handler  http.Handler
}

// Config holds API server configuration.
type Config struct {
	Projects *projects.Service
	// Runs is optional; without it the run history endpoint answers 503.
	Runs   RunStore
	Logger *zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &Server{
		projects: cfg.Projects,
		runs:     cfg.Runs,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	s.handler = logging.Middleware(logger)(s.mux)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /api/projects/{projectID}", s.handleGetProject)
	s.mux.HandleFunc("GET /api/projects/{projectID}/branches/{branchID}/report", s.handleBranchReport)
	s.mux.HandleFunc("GET /api/projects/{projectID}/branches/{branchID}/runs", s.handleBranchRuns)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
