package rank

import (
	"sort"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/types"
)

// Seasonal ranks the selected players by their all-time maximum score.
// Selection is exact string match; selected names with no observations
// simply produce no entry. Ranks are dense and 1-based: equal scores take
// consecutive ranks in the snapshot's first-seen order. An empty selection
// yields an empty slice, never an error.
func Seasonal(snap *history.Snapshot, selected map[string]struct{}) []types.SeasonalRankEntry {
	entries := make([]types.SeasonalRankEntry, 0, len(selected))
	for _, player := range snap.Players() {
		if _, ok := selected[player]; !ok {
			continue
		}
		best, ok := snap.MaxScore(player)
		if !ok {
			continue
		}
		entries = append(entries, types.SeasonalRankEntry{Player: player, HighestScore: best})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].HighestScore > entries[j].HighestScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
