package rank_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/model"
	"github.com/gainboard/gainboard/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

// naiveRolling re-scans the window for every anchor, straight from the
// definition. The optimized scan must match it exactly.
func naiveRolling(series []model.Observation, window time.Duration) (int64, bool) {
	var best int64
	for i := range series {
		end := series[i].TS.Add(window)
		var windowMax int64
		found := false
		for _, o := range series {
			if o.TS.After(series[i].TS) && !o.TS.After(end) {
				if !found || o.Score > windowMax {
					windowMax = o.Score
					found = true
				}
			}
		}
		if found {
			if gain := windowMax - series[i].Score; gain > best {
				best = gain
			}
		}
	}
	return best, best > 0
}

func TestRolling(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a peak inside the rolling window", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "A", TS: base, Score: 10},
			{Player: "A", TS: base.Add(1 * time.Hour), Score: 30},
			{Player: "A", TS: base.Add(3 * time.Hour), Score: 20},
		})
		gains := rank.Rolling(snap, 2*time.Hour)

		Convey("Then the anchor before the peak wins, not the last delta", func() {
			So(gains["A"], ShouldEqual, 20)
		})
	})

	Convey("Given a strictly decreasing series", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "down", TS: base, Score: 30},
			{Player: "down", TS: base.Add(time.Hour), Score: 20},
			{Player: "down", TS: base.Add(2 * time.Hour), Score: 10},
		})
		gains := rank.Rolling(snap, 4*time.Hour)

		Convey("Then the player is omitted entirely", func() {
			_, ok := gains["down"]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a single observation", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "solo", TS: base, Score: 10},
		})

		Convey("Then no forward window exists and nothing is emitted", func() {
			So(len(rank.Rolling(snap, time.Hour)), ShouldEqual, 0)
		})
	})

	Convey("Given window boundary samples", t, func() {
		Convey("Then a sample exactly at anchor+window counts", func() {
			snap := history.NewSnapshot([]model.Observation{
				{Player: "edge", TS: base, Score: 10},
				{Player: "edge", TS: base.Add(2 * time.Hour), Score: 25},
			})
			gains := rank.Rolling(snap, 2*time.Hour)
			So(gains["edge"], ShouldEqual, 15)
		})

		Convey("Then a sample sharing the anchor instant does not", func() {
			snap := history.NewSnapshot([]model.Observation{
				{Player: "tie", TS: base, Score: 10},
				{Player: "tie", TS: base, Score: 25},
			})
			So(len(rank.Rolling(snap, 2*time.Hour)), ShouldEqual, 0)
		})
	})

	Convey("Given randomized histories", t, func() {
		rng := rand.New(rand.NewSource(42))

		Convey("Then the deque scan matches the naive definition", func() {
			for trial := 0; trial < 200; trial++ {
				n := 1 + rng.Intn(40)
				observations := make([]model.Observation, 0, n)
				ts := base
				for i := 0; i < n; i++ {
					ts = ts.Add(time.Duration(rng.Intn(5)) * 30 * time.Minute)
					observations = append(observations, model.Observation{
						Player: "p",
						TS:     ts,
						Score:  int64(rng.Intn(200) - 50),
					})
				}
				window := time.Duration(1+rng.Intn(12)) * time.Hour
				snap := history.NewSnapshot(observations)

				want, wantOK := naiveRolling(snap.Series("p"), window)
				gains := rank.Rolling(snap, window)
				got, gotOK := gains["p"]

				So(gotOK, ShouldEqual, wantOK)
				if wantOK {
					So(got, ShouldEqual, want)
				}
			}
		})
	})
}

func TestRollingRecords(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given several players with positive rolling gains", t, func() {
		snap := history.NewSnapshot([]model.Observation{
			{Player: "small", TS: base, Score: 0},
			{Player: "small", TS: base.Add(time.Hour), Score: 5},
			{Player: "big", TS: base, Score: 0},
			{Player: "big", TS: base.Add(time.Hour), Score: 50},
			{Player: "flat", TS: base, Score: 7},
			{Player: "flat", TS: base.Add(time.Hour), Score: 7},
		})
		records := rank.RollingRecords(snap, rank.Rolling(snap, 2*time.Hour))

		Convey("Then records are descending and omit non-positive players", func() {
			So(len(records), ShouldEqual, 2)
			So(records[0].Player, ShouldEqual, "big")
			So(records[0].MaxGain, ShouldEqual, 50)
			So(records[1].Player, ShouldEqual, "small")
		})
	})
}
