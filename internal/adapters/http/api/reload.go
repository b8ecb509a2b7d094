package api

import (
	"fmt"
	"net/http"
)

// ReloadHandler triggers a snapshot rebuild from the record source.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /reload requests. On failure the previous
// snapshot stays active and the error is reported.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload_failed", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded"})
}
