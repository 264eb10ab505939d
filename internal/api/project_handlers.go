package api

import (
	"net/http"

	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/rs/zerolog"
)

// handleListProjects returns every project hydrated with live data.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.projects.Hydrate(r.Context()))
}

// handleGetProject returns one hydrated project. A failure to list its
// branches is reported as a warning alongside the static project.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := s.requireProject(w, r)
	if !ok {
		return
	}

	warnings := []string{}
	hydrated, err := s.projects.HydrateProject(r.Context(), project)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("project", project.ID).Msg("failed to hydrate project")
		warnings = append(warnings, err.Error())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project":  hydrated,
		"warnings": warnings,
	})
}

// handleBranchReport returns the normalized report of a branch.
func (s *Server) handleBranchReport(w http.ResponseWriter, r *http.Request) {
	project, ok := s.requireProject(w, r)
	if !ok {
		return
	}

	branchID := r.PathValue("branchID")
	res := s.projects.FetchBranchReport(r.Context(), project, branchID)
	switch res.State {
	case projects.StateData:
		writeJSON(w, http.StatusOK, map[string]any{
			"state":  res.State,
			"report": res.Report,
		})
	case projects.StateNoData:
		writeJSON(w, http.StatusOK, map[string]any{"state": res.State})
	default:
		zerolog.Ctx(r.Context()).Error().Err(res.Err).
			Str("project", project.ID).
			Str("branch", branchID).
			Msg("failed to fetch branch report")
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"state": res.State,
			"error": res.Err.Error(),
		})
	}
}
