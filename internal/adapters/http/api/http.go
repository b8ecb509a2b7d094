// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gainboard/gainboard/internal/domain/progression"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Gains computes the windowed gain leaderboard; nil window = all time.
	Gains(ctx context.Context, ref time.Time, window *time.Duration, allow map[string]struct{}) []types.GainEntry

	// RollingGains computes per-player biggest rolling-window gains.
	RollingGains(ctx context.Context, window time.Duration) []types.RollingGain

	// Progression builds the forward-filled progression series.
	Progression(ctx context.Context, cohort, labels int) progression.Result

	// Seasonal ranks the roster by all-time best score; the bool reports a
	// missing roster list.
	Seasonal(ctx context.Context) ([]types.SeasonalRankEntry, bool)

	// Reload rebuilds the snapshot from the record source.
	Reload(ctx context.Context) error
}

// Limits carries the query bounds handlers enforce.
type Limits struct {
	MinWindow  time.Duration
	MaxWindow  time.Duration
	MinRolling time.Duration
	MaxRolling time.Duration

	DefaultCohort int
	DefaultLabels int
	MaxCohort     int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	gainsHandler       *GainsHandler
	rollingHandler     *RollingHandler
	progressionHandler *ProgressionHandler
	seasonalHandler    *SeasonalHandler
	reloadHandler      *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		gainsHandler:       NewGainsHandler(deps, limits),
		rollingHandler:     NewRollingHandler(deps, limits),
		progressionHandler: NewProgressionHandler(deps, limits),
		seasonalHandler:    NewSeasonalHandler(deps),
		reloadHandler:      NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/gains", MetricsMiddleware(s.gainsHandler.HandleGetGains, "gains"))
	mux.HandleFunc("/rolling", MetricsMiddleware(s.rollingHandler.HandleGetRolling, "rolling"))
	mux.HandleFunc("/progression", MetricsMiddleware(s.progressionHandler.HandleGetProgression, "progression"))
	mux.HandleFunc("/seasonal", MetricsMiddleware(s.seasonalHandler.HandleGetSeasonal, "seasonal"))
	mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
