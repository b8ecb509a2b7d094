// Package history builds and filters the chronological observation index.
package history

import (
	"sort"

	"github.com/gainboard/gainboard/internal/domain/model"
)

// Snapshot is an immutable index over a full observation history: one
// chronological series per player plus the order in which players first
// appeared in the input. Nothing is deduplicated; samples sharing an instant
// keep their insertion order. Queries never mutate a Snapshot, so concurrent
// reads against the same Snapshot are safe without locking.
type Snapshot struct {
	players []string
	series  map[string][]model.Observation
	total   int
}

// NewSnapshot indexes raw observations into per-player chronological series.
// The per-player sort is stable so same-instant samples retain input order.
// A nil or empty input yields a valid empty Snapshot.
func NewSnapshot(observations []model.Observation) *Snapshot {
	s := &Snapshot{series: make(map[string][]model.Observation)}
	for _, o := range observations {
		if _, ok := s.series[o.Player]; !ok {
			s.players = append(s.players, o.Player)
		}
		s.series[o.Player] = append(s.series[o.Player], o)
		s.total++
	}
	for p := range s.series {
		series := s.series[p]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].TS.Before(series[j].TS)
		})
	}
	return s
}

// Players returns player names in first-seen order. The returned slice is
// owned by the Snapshot and must not be modified.
func (s *Snapshot) Players() []string {
	return s.players
}

// Series returns one player's observations in chronological order, or nil if
// the player is unknown. The returned slice is owned by the Snapshot.
func (s *Snapshot) Series(player string) []model.Observation {
	return s.series[player]
}

// Len returns the total number of observations across all players.
func (s *Snapshot) Len() int {
	return s.total
}

// MaxScore returns a player's all-time maximum score. The second return is
// false when the player has no observations.
func (s *Snapshot) MaxScore(player string) (int64, bool) {
	series := s.series[player]
	if len(series) == 0 {
		return 0, false
	}
	best := series[0].Score
	for _, o := range series[1:] {
		if o.Score > best {
			best = o.Score
		}
	}
	return best, true
}
