package api

import (
	"net/http"

	"github.com/kamilpajak/pulse/internal/history"
)

// handleBranchRuns returns the stored runs of a branch with their trend.
func (s *Server) handleBranchRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is not configured")
		return
	}

	project, ok := s.requireProject(w, r)
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := s.runs.ListBranchRuns(r.Context(), project.ID, r.PathValue("branchID"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":    runs,
		"summary": history.Summarize(runs),
	})
}
