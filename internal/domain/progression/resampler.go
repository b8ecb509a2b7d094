// Package progression resamples player score histories onto a shared time
// axis for charting.
package progression

import (
	"sort"
	"time"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/model"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// Result bundles the long-form progression series with the label points a
// chart layer places next to the most recent value of the top players.
type Result struct {
	Points []types.ProgressionPoint `json:"points"`
	Labels []types.ProgressionPoint `json:"labels"`
}

// Build selects the top cohortSize players by all-time maximum score
// (descending, ties kept in first-seen order), aligns their histories on the
// sorted union of the cohort's sample instants with forward fill, and
// returns the long-form series ordered by instant then cohort rank. For the
// top labelSize players of the same ranking it also returns each player's
// latest filled point.
//
// Cells before a player's first observation stay absent rather than
// zero-filled; a player holding several samples at one instant contributes
// the maximum of those samples; negative values, which only occur with
// corrupt input, clamp to zero without creating new points.
func Build(snap *history.Snapshot, cohortSize, labelSize int) Result {
	cohort := topByMaxScore(snap, cohortSize)
	if len(cohort) == 0 {
		return Result{
			Points: []types.ProgressionPoint{},
			Labels: []types.ProgressionPoint{},
		}
	}
	axis := unionAxis(snap, cohort)

	points := make([]types.ProgressionPoint, 0, len(axis)*len(cohort))
	latest := make(map[string]types.ProgressionPoint, len(cohort))
	cursors := make([]fillCursor, len(cohort))
	for i, player := range cohort {
		cursors[i].series = snap.Series(player)
	}
	for _, ts := range axis {
		for i, player := range cohort {
			cur := &cursors[i]
			cur.advanceTo(ts)
			if !cur.filled {
				continue
			}
			score := cur.value
			if score < 0 {
				score = 0
			}
			p := types.ProgressionPoint{TS: ts, Player: player, Score: score}
			points = append(points, p)
			latest[player] = p
		}
	}

	if labelSize < 0 {
		labelSize = 0
	}
	if labelSize > len(cohort) {
		labelSize = len(cohort)
	}
	labels := make([]types.ProgressionPoint, 0, labelSize)
	for _, player := range cohort[:labelSize] {
		if p, ok := latest[player]; ok {
			labels = append(labels, p)
		}
	}
	return Result{Points: points, Labels: labels}
}

// fillCursor walks one player's series alongside the shared axis, carrying
// the value of the player's latest instant at or before the axis instant.
// Samples sharing that instant collapse to their maximum; a later instant
// replaces the value outright, even when lower.
type fillCursor struct {
	series []model.Observation
	idx    int
	filled bool
	lastTS time.Time
	value  int64
}

func (c *fillCursor) advanceTo(ts time.Time) {
	for c.idx < len(c.series) && !c.series[c.idx].TS.After(ts) {
		o := c.series[c.idx]
		if c.filled && o.TS.Equal(c.lastTS) {
			if o.Score > c.value {
				c.value = o.Score
			}
		} else {
			c.value = o.Score
			c.lastTS = o.TS
			c.filled = true
		}
		c.idx++
	}
}

// topByMaxScore ranks all players by their all-time maximum score and
// returns the top n names. The stable sort keeps first-seen order for ties.
func topByMaxScore(snap *history.Snapshot, n int) []string {
	if n <= 0 {
		return nil
	}
	type ranked struct {
		player string
		best   int64
	}
	all := make([]ranked, 0, len(snap.Players()))
	for _, player := range snap.Players() {
		if best, ok := snap.MaxScore(player); ok {
			all = append(all, ranked{player: player, best: best})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].best > all[j].best
	})
	if n > len(all) {
		n = len(all)
	}
	cohort := make([]string, n)
	for i := range cohort {
		cohort[i] = all[i].player
	}
	return cohort
}

// unionAxis returns the sorted union of distinct sample instants across the
// cohort's observations.
func unionAxis(snap *history.Snapshot, cohort []string) []time.Time {
	var axis []time.Time
	for _, player := range cohort {
		for _, o := range snap.Series(player) {
			axis = append(axis, o.TS)
		}
	}
	sort.Slice(axis, func(i, j int) bool {
		return axis[i].Before(axis[j])
	})
	distinct := axis[:0]
	for _, ts := range axis {
		if len(distinct) == 0 || !ts.Equal(distinct[len(distinct)-1]) {
			distinct = append(distinct, ts)
		}
	}
	return distinct
}
