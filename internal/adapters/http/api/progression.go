package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// ProgressionHandler handles progression series requests.
type ProgressionHandler struct {
	deps   Dependencies
	limits Limits
}

// NewProgressionHandler creates a new progression handler.
func NewProgressionHandler(deps Dependencies, limits Limits) *ProgressionHandler {
	return &ProgressionHandler{deps: deps, limits: limits}
}

// HandleGetProgression handles GET /progression?cohort=N&labels=K requests.
// Both sizes default from configuration; cohort is capped, and labels never
// exceed the cohort.
func (h *ProgressionHandler) HandleGetProgression(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_progression"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cohort, err := positiveParam(r, "cohort", h.limits.DefaultCohort)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	labels, err := positiveParam(r, "labels", h.limits.DefaultLabels)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if cohort > h.limits.MaxCohort {
		writeError(w, http.StatusBadRequest, "cohort_exceeded",
			fmt.Errorf("%s: %w: cohort above %d", op, ErrBadRequest, h.limits.MaxCohort))
		return
	}
	if labels > cohort {
		labels = cohort
	}
	writeJSON(w, http.StatusOK, h.deps.Progression(r.Context(), cohort, labels))
}

// positiveParam reads an optional positive integer query parameter.
func positiveParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	return n, nil
}
