// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gainboard/gainboard/internal/adapters/repository"
	"github.com/gainboard/gainboard/internal/adapters/source"
	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/progression"
	"github.com/gainboard/gainboard/internal/domain/rank"
	"github.com/gainboard/gainboard/internal/domain/types"
	"github.com/gainboard/gainboard/pkg/logger"
	"github.com/gainboard/gainboard/pkg/metrics"
)

// Default query limits. Window presets and caps mirror the original viewer.
const (
	defaultCohortSize      = 20
	defaultLabelCohortSize = 5
	defaultMaxCohortSize   = 100
	defaultMinWindow       = 1 * time.Hour
	defaultMaxWindow       = 168 * time.Hour
)

// Service computes leaderboard statistics over the active snapshot. All
// query methods are pure reads against an immutable snapshot, so they are
// safe to call concurrently; Reload swaps in a new snapshot atomically.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	src   source.RecordSource

	// Seasonal roster state
	namesFile     string
	roster        []string
	rosterMissing bool

	// Last reload bookkeeping
	lastReport source.Report
	lastReload time.Time

	// Query limits
	cohortSize int
	labelSize  int
	maxCohort  int
	rollingMin time.Duration
	rollingMax time.Duration
	windowMin  time.Duration
	windowMax  time.Duration

	// Watcher
	watch       bool
	cancelWatch context.CancelFunc

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRecordSource sets the record store adapter snapshots are loaded from.
func WithRecordSource(src source.RecordSource) Option {
	return func(s *Service) {
		s.src = src
	}
}

// WithNamesFile sets the seasonal roster list path.
func WithNamesFile(path string) Option {
	return func(s *Service) {
		s.namesFile = path
	}
}

// WithCohortSize sets the default progression cohort size.
func WithCohortSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cohortSize = n
		}
	}
}

// WithLabelCohortSize sets the default label subset size.
func WithLabelCohortSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.labelSize = n
		}
	}
}

// WithMaxCohortSize caps caller-supplied cohort sizes.
func WithMaxCohortSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCohort = n
		}
	}
}

// WithRollingBounds bounds the rolling-window duration accepted by queries.
func WithRollingBounds(minWindow, maxWindow time.Duration) Option {
	return func(s *Service) {
		if minWindow > 0 && maxWindow >= minWindow {
			s.rollingMin = minWindow
			s.rollingMax = maxWindow
		}
	}
}

// WithWindowBounds bounds the custom gain-window duration.
func WithWindowBounds(minWindow, maxWindow time.Duration) Option {
	return func(s *Service) {
		if minWindow > 0 && maxWindow >= minWindow {
			s.windowMin = minWindow
			s.windowMax = maxWindow
		}
	}
}

// WithWatch reloads the snapshot whenever the data or roster file changes.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cohortSize: defaultCohortSize,
		labelSize:  defaultLabelCohortSize,
		maxCohort:  defaultMaxCohortSize,
		rollingMin: defaultMinWindow,
		rollingMax: defaultMaxWindow,
		windowMin:  defaultMinWindow,
		windowMax:  defaultMaxWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the initial snapshot and, when enabled, begins watching the
// source files for changes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.src == nil {
		s.mu.Unlock()
		return ErrNoRecordSource
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.store = repository.NewSnapshotStore()
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting gainboard service...")
	if err := s.Reload(ctx); err != nil {
		s.Stop()
		return err
	}

	if s.watch {
		watchCtx, cancel := context.WithCancel(context.Background())
		s.mu.Lock()
		s.cancelWatch = cancel
		s.mu.Unlock()
		paths := []string{}
		if p, ok := s.src.(interface{ Path() string }); ok {
			paths = append(paths, p.Path())
		}
		if s.namesFile != "" {
			paths = append(paths, s.namesFile)
		}
		if len(paths) > 0 {
			go func() {
				err := source.Watch(watchCtx, paths, func(path string) {
					if err := s.Reload(watchCtx); err != nil {
						s.logger.Warn(watchCtx, "reload after change failed; keeping previous snapshot",
							logger.String("path", path), logger.Error(err))
					}
				})
				if err != nil {
					s.logger.Warn(watchCtx, "source watch unavailable", logger.Error(err))
				}
			}()
		}
	}
	return nil
}

// Stop shuts down the watcher. Queries against the last snapshot keep
// working; Stop exists so a caller can tear the service down cleanly.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "gainboard service stopped")
}

// Reload rebuilds the snapshot from the record source and re-reads the
// seasonal roster. Malformed rows are dropped, counted and surfaced; the
// previous snapshot stays active if the load fails outright.
func (s *Service) Reload(ctx context.Context) error {
	start := time.Now()

	observations, report, err := s.src.Load(ctx)
	metrics.AddMalformedRecords(report.Malformed)
	if err != nil {
		return err
	}
	snap := history.NewSnapshot(observations)
	s.store.Swap(ctx, snap)

	roster, rosterErr := s.loadRoster()

	s.mu.Lock()
	s.lastReport = report
	s.lastReload = time.Now()
	s.roster = roster
	s.rosterMissing = errors.Is(rosterErr, source.ErrMissingNamesList)
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordSnapshotReload(elapsed, snap.Len(), len(snap.Players()))
	metrics.UpdateRosterSize(len(roster))

	if report.Malformed > 0 {
		s.logger.Warn(ctx, "dropped malformed records",
			logger.Int("malformed", report.Malformed),
			logger.Any("examples", report.RowErrors),
		)
	}
	if rosterErr != nil && !errors.Is(rosterErr, source.ErrMissingNamesList) {
		return rosterErr
	}
	s.logger.Info(ctx, "snapshot reloaded",
		logger.Int("observations", snap.Len()),
		logger.Int("players", len(snap.Players())),
		logger.Int("roster", len(roster)),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

// loadRoster reads the seasonal roster if configured. A missing file is a
// signal, not a failure: the error is returned for classification and the
// roster is empty.
func (s *Service) loadRoster() ([]string, error) {
	if s.namesFile == "" {
		return nil, source.ErrMissingNamesList
	}
	return source.LoadNames(s.namesFile)
}

// Gains computes the windowed gain leaderboard. A nil window means all
// time; allow restricts players by exact name match when non-empty.
func (s *Service) Gains(ctx context.Context, ref time.Time, window *time.Duration, allow map[string]struct{}) []types.GainEntry {
	start := time.Now()
	snap := s.store.Current(ctx)
	entries := rank.Gains(history.Filter(snap, ref, window, allow))
	metrics.ObserveQueryDuration("gains", float64(time.Since(start).Milliseconds()))
	return entries
}

// RollingGains finds each player's biggest forward-looking gain within the
// given rolling window, descending, positive results only.
func (s *Service) RollingGains(ctx context.Context, window time.Duration) []types.RollingGain {
	start := time.Now()
	snap := s.store.Current(ctx)
	records := rank.RollingRecords(snap, rank.Rolling(snap, window))
	metrics.ObserveQueryDuration("rolling", float64(time.Since(start).Milliseconds()))
	return records
}

// Progression builds the forward-filled progression series for the top
// cohort players plus label points for the top label subset.
func (s *Service) Progression(ctx context.Context, cohort, labels int) progression.Result {
	start := time.Now()
	snap := s.store.Current(ctx)
	result := progression.Build(snap, cohort, labels)
	metrics.ObserveQueryDuration("progression", float64(time.Since(start).Milliseconds()))
	return result
}

// Seasonal ranks the roster players by all-time best score. The second
// return reports whether the roster list file was missing, which callers
// surface distinctly from an empty match.
func (s *Service) Seasonal(ctx context.Context) ([]types.SeasonalRankEntry, bool) {
	start := time.Now()
	s.mu.RLock()
	roster := s.roster
	missing := s.rosterMissing
	s.mu.RUnlock()
	snap := s.store.Current(ctx)
	entries := rank.Seasonal(snap, source.NameSet(roster))
	metrics.ObserveQueryDuration("seasonal", float64(time.Since(start).Milliseconds()))
	return entries, missing
}

// RollingBounds returns the accepted rolling-window duration range.
func (s *Service) RollingBounds() (time.Duration, time.Duration) {
	return s.rollingMin, s.rollingMax
}

// WindowBounds returns the accepted custom gain-window duration range.
func (s *Service) WindowBounds() (time.Duration, time.Duration) {
	return s.windowMin, s.windowMax
}

// CohortDefaults returns the default cohort size, default label subset size
// and the hard cohort cap.
func (s *Service) CohortDefaults() (cohort, labels, maxCohort int) {
	return s.cohortSize, s.labelSize, s.maxCohort
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"rosterSize":    len(s.roster),
		"rosterMissing": s.rosterMissing,
	}
	if s.store != nil {
		snap := s.store.Current(ctx)
		stats["observations"] = snap.Len()
		stats["players"] = len(snap.Players())
	}
	if !s.lastReload.IsZero() {
		stats["lastReload"] = s.lastReload
		stats["malformedRecords"] = s.lastReport.Malformed
	}
	return stats
}
