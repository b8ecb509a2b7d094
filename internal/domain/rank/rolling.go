package rank

import (
	"sort"
	"time"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/model"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// Rolling finds, for each player, the largest score increase observable in
// any forward-looking window of the given duration: anchored at a sample
// taken at t, every later sample in (t, t+window] is a candidate, and the
// candidate gain is the window maximum minus the anchor score. Players whose
// best candidate is not strictly positive are omitted, as are players with
// fewer than two samples.
func Rolling(snap *history.Snapshot, window time.Duration) map[string]int64 {
	out := make(map[string]int64)
	for _, player := range snap.Players() {
		if gain, ok := rollingMax(snap.Series(player), window); ok {
			out[player] = gain
		}
	}
	return out
}

// rollingMax scans one chronological series with a monotonic deque holding
// candidate indices in decreasing score order. Both window bounds only move
// forward as the anchor advances, so each index is pushed and popped at most
// once and the scan is O(n). The result matches the quadratic
// scan-every-window definition exactly.
func rollingMax(series []model.Observation, window time.Duration) (int64, bool) {
	var best int64
	var deque []int
	next := 0
	for i := range series {
		end := series[i].TS.Add(window)
		for next < len(series) && !series[next].TS.After(end) {
			for len(deque) > 0 && series[deque[len(deque)-1]].Score <= series[next].Score {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, next)
			next++
		}
		// Anchors share the window's open lower bound: samples at or
		// before t_i are out.
		for len(deque) > 0 && !series[deque[0]].TS.After(series[i].TS) {
			deque = deque[1:]
		}
		if len(deque) > 0 {
			if gain := series[deque[0]].Score - series[i].Score; gain > best {
				best = gain
			}
		}
	}
	return best, best > 0
}

// RollingRecords flattens a rolling-gain mapping into a descending list.
// Players are seeded in the snapshot's first-seen order so that equal gains
// stay deterministic under the stable sort.
func RollingRecords(snap *history.Snapshot, gains map[string]int64) []types.RollingGain {
	records := make([]types.RollingGain, 0, len(gains))
	for _, player := range snap.Players() {
		if gain, ok := gains[player]; ok {
			records = append(records, types.RollingGain{Player: player, MaxGain: gain})
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MaxGain > records[j].MaxGain
	})
	return records
}
