package rank_test

import (
	"testing"
	"time"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/model"
	"github.com/gainboard/gainboard/internal/domain/rank"
	"github.com/gainboard/gainboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeasonal(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a roster with one matched and one absent name", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "X", TS: base, Score: 40},
			{Player: "X", TS: base.Add(time.Hour), Score: 42},
		})
		entries := rank.Seasonal(snap, map[string]struct{}{"X": {}, "Y": {}})

		Convey("Then only the matched player gets an entry, no error", func() {
			So(entries, ShouldResemble, []types.SeasonalRankEntry{
				{Rank: 1, Player: "X", HighestScore: 42},
			})
		})
	})

	Convey("Given several roster players", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "mid", TS: base, Score: 50},
			{Player: "top", TS: base, Score: 90},
			{Player: "low", TS: base, Score: 10},
			{Player: "top", TS: base.Add(time.Hour), Score: 70},
		})
		selected := map[string]struct{}{"mid": {}, "top": {}, "low": {}}
		entries := rank.Seasonal(snap, selected)

		Convey("Then ranks are dense, 1-based and score-descending", func() {
			So(len(entries), ShouldEqual, 3)
			So(entries[0], ShouldResemble, types.SeasonalRankEntry{Rank: 1, Player: "top", HighestScore: 90})
			So(entries[1].Rank, ShouldEqual, 2)
			So(entries[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given equal highest scores", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "earlier", TS: base, Score: 30},
			{Player: "later", TS: base, Score: 30},
		})
		entries := rank.Seasonal(snap, map[string]struct{}{"earlier": {}, "later": {}})

		Convey("Then ties take consecutive ranks in first-seen order", func() {
			So(entries[0], ShouldResemble, types.SeasonalRankEntry{Rank: 1, Player: "earlier", HighestScore: 30})
			So(entries[1], ShouldResemble, types.SeasonalRankEntry{Rank: 2, Player: "later", HighestScore: 30})
		})
	})

	Convey("Given an empty selection", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "X", TS: base, Score: 40},
		})
		entries := rank.Seasonal(snap, nil)

		Convey("Then the result is an empty sequence", func() {
			So(entries, ShouldNotBeNil)
			So(len(entries), ShouldEqual, 0)
		})
	})
}
