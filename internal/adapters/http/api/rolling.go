package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// defaultRollingWindow mirrors the original viewer's slider default.
const defaultRollingWindow = 4 * time.Hour

// RollingHandler handles rolling max-gain requests.
type RollingHandler struct {
	deps   Dependencies
	limits Limits
}

// NewRollingHandler creates a new rolling-gain handler.
func NewRollingHandler(deps Dependencies, limits Limits) *RollingHandler {
	return &RollingHandler{deps: deps, limits: limits}
}

// HandleGetRolling handles GET /rolling?hours=N requests. The window
// defaults to 4 hours and must lie inside the configured bounds. Players
// with no strictly positive rolling gain are absent from the response.
func (h *RollingHandler) HandleGetRolling(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rolling"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	window := defaultRollingWindow
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours < 1 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%s: %w: hours must be a positive integer", op, ErrBadRequest))
			return
		}
		window = time.Duration(hours) * time.Hour
	}
	if window < h.limits.MinRolling || window > h.limits.MaxRolling {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: %w: hours outside %v..%v", op, ErrBadRequest, h.limits.MinRolling, h.limits.MaxRolling))
		return
	}
	records := h.deps.RollingGains(r.Context(), window)
	writeJSON(w, http.StatusOK, records)
}
