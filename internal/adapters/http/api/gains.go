package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gainboard/gainboard/internal/adapters/source"
)

// Window presets offered by the gains leaderboard.
const (
	windowPresetDay  = 24 * time.Hour
	windowPresetWeek = 168 * time.Hour
)

// GainsHandler handles windowed gain leaderboard requests.
type GainsHandler struct {
	deps   Dependencies
	limits Limits
}

// NewGainsHandler creates a new gains handler.
func NewGainsHandler(deps Dependencies, limits Limits) *GainsHandler {
	return &GainsHandler{deps: deps, limits: limits}
}

// HandleGetGains handles GET /gains requests.
// Query parameters: window=24h|7d|all for presets, or hours=N for a custom
// window bounded by the configured range; names= optionally restricts
// players (comma or newline separated, exact match after trimming).
func (h *GainsHandler) HandleGetGains(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_gains"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	window, err := h.parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	allow := source.ParseAllowList(r.URL.Query().Get("names"))
	entries := h.deps.Gains(r.Context(), time.Now().UTC(), window, allow)
	writeJSON(w, http.StatusOK, entries)
}

// parseWindow resolves the preset or custom window. Nil means all time.
func (h *GainsHandler) parseWindow(r *http.Request) (*time.Duration, error) {
	q := r.URL.Query()
	if hoursStr := q.Get("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours < 1 {
			return nil, fmt.Errorf("%w: hours must be a positive integer", ErrBadRequest)
		}
		window := time.Duration(hours) * time.Hour
		if window < h.limits.MinWindow || window > h.limits.MaxWindow {
			return nil, fmt.Errorf("%w: hours outside %v..%v", ErrBadRequest, h.limits.MinWindow, h.limits.MaxWindow)
		}
		return &window, nil
	}
	switch q.Get("window") {
	case "", "all":
		return nil, nil
	case "24h":
		window := windowPresetDay
		return &window, nil
	case "7d":
		window := windowPresetWeek
		return &window, nil
	default:
		return nil, fmt.Errorf("%w: window must be 24h, 7d or all", ErrBadRequest)
	}
}
