// Package rank computes leaderboard rankings over indexed observations.
package rank

import (
	"sort"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// Gains ranks every player in the filtered snapshot by windowed gain:
// max(score) minus min(score) over their surviving observations, chronology
// ignored. The value is never negative by construction, and zero gains stay
// in the result. The sort is a stable descending order, so equal gains keep
// the snapshot's first-seen order. An empty snapshot yields an empty slice.
func Gains(snap *history.Snapshot) []types.GainEntry {
	entries := make([]types.GainEntry, 0, len(snap.Players()))
	for _, player := range snap.Players() {
		series := snap.Series(player)
		if len(series) == 0 {
			continue
		}
		lo, hi := series[0].Score, series[0].Score
		for _, o := range series[1:] {
			if o.Score < lo {
				lo = o.Score
			}
			if o.Score > hi {
				hi = o.Score
			}
		}
		entries = append(entries, types.GainEntry{Player: player, Gain: hi - lo})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Gain > entries[j].Gain
	})
	return entries
}
