package api

import (
	"net/http"

	"github.com/gainboard/gainboard/internal/domain/types"
)

// SeasonalHandler handles seasonal leaderboard requests.
type SeasonalHandler struct {
	deps Dependencies
}

// NewSeasonalHandler creates a new seasonal handler.
func NewSeasonalHandler(deps Dependencies) *SeasonalHandler {
	return &SeasonalHandler{deps: deps}
}

// seasonalResponse distinguishes "roster file missing" from "roster present
// but nobody matched": both produce empty entries, only the former sets the
// flag, and the client renders an error state for it.
type seasonalResponse struct {
	Entries       []types.SeasonalRankEntry `json:"entries"`
	RosterMissing bool                      `json:"roster_missing"`
}

// HandleGetSeasonal handles GET /seasonal requests.
func (h *SeasonalHandler) HandleGetSeasonal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, missing := h.deps.Seasonal(r.Context())
	writeJSON(w, http.StatusOK, seasonalResponse{Entries: entries, RosterMissing: missing})
}
