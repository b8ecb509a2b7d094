package history

import (
	"time"

	"github.com/gainboard/gainboard/internal/domain/model"
)

// Filter restricts a snapshot to observations inside the query window and,
// optionally, to an exact-match name allow-list. A nil window means all
// time; otherwise observations with ts >= ref-window survive. Any player
// left with fewer than two observations is dropped entirely, since a gain
// cannot be computed from a single point. An empty result is valid, not an
// error.
func Filter(snap *Snapshot, ref time.Time, window *time.Duration, allow map[string]struct{}) *Snapshot {
	out := &Snapshot{series: make(map[string][]model.Observation)}
	var cutoff time.Time
	if window != nil {
		cutoff = ref.Add(-*window)
	}
	for _, player := range snap.Players() {
		if len(allow) > 0 {
			if _, ok := allow[player]; !ok {
				continue
			}
		}
		var kept []model.Observation
		for _, o := range snap.Series(player) {
			if window != nil && o.TS.Before(cutoff) {
				continue
			}
			kept = append(kept, o)
		}
		if len(kept) < 2 {
			continue
		}
		out.players = append(out.players, player)
		out.series[player] = kept
		out.total += len(kept)
	}
	return out
}
