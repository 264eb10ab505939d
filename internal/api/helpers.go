package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kamilpajak/pulse/pkg/models"
)

const maxRunLimit = 200

var errInvalidLimit = errors.New("limit must be an integer between 1 and 200")

// requireProject resolves the "projectID" path parameter against the
// directory, writing a 404 when it is unknown.
func (s *Server) requireProject(w http.ResponseWriter, r *http.Request) (models.ProjectInfo, bool) {
	project, ok := s.projects.Project(r.PathValue("projectID"))
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return models.ProjectInfo{}, false
	}
	return project, true
}

// parseLimit reads the optional "limit" query parameter. Zero means the
// store's default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxRunLimit {
		return 0, errInvalidLimit
	}
	return limit, nil
}
