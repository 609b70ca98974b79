package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/roster/internal/repository"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status
func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "status", status, "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps repository errors onto HTTP status codes. Anything
// unrecognised is logged and reported as a 500 with a generic message.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		a.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		a.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrInvalidEntity), errors.Is(err, repository.ErrInvalidPage):
		a.writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.ErrorContext(r.Context(), "request failed", "action", action, "method", r.Method, "path", r.URL.Path, "error", err)
		a.writeError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// parseID reads the {id} URL parameter
func parseID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", idStr)
	}
	return id, nil
}

// parsePage reads the page and pageSize query parameters. ok is false when
// neither is present. Range checks are left to the repository.
func parsePage(r *http.Request) (page, pageSize int, ok bool, err error) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("pageSize") {
		return 0, 0, false, nil
	}
	if !q.Has("page") || !q.Has("pageSize") {
		return 0, 0, true, errors.New("page and pageSize must be given together")
	}
	page, err = strconv.Atoi(q.Get("page"))
	if err != nil {
		return 0, 0, true, fmt.Errorf("invalid page %q", q.Get("page"))
	}
	pageSize, err = strconv.Atoi(q.Get("pageSize"))
	if err != nil {
		return 0, 0, true, fmt.Errorf("invalid pageSize %q", q.Get("pageSize"))
	}
	return page, pageSize, true, nil
}
