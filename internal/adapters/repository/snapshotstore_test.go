package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gainboard/gainboard/internal/adapters/repository"
	"github.com/gainboard/gainboard/internal/domain/history"
	"github.com/gainboard/gainboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a fresh store", t, func() {
		store := repository.NewSnapshotStore()

		Convey("Then it serves an empty snapshot, never nil", func() {
			So(store.Current(ctx), ShouldNotBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})

	Convey("Given a store seeded via WithInitial", t, func() {
		seed := history.NewSnapshot([]model.Observation{
			{Player: "A", TS: base, Score: 1},
		})
		store := repository.NewSnapshotStore(repository.WithInitial(seed))

		Convey("Then the seed is the active snapshot", func() {
			So(store.Current(ctx), ShouldEqual, seed)
			So(store.Count(ctx), ShouldEqual, 1)
		})
	})

	Convey("Given a swap while a reader holds the old snapshot", t, func() {
		store := repository.NewSnapshotStore()
		held := store.Current(ctx)

		next := history.NewSnapshot([]model.Observation{
			{Player: "A", TS: base, Score: 1},
			{Player: "A", TS: base.Add(time.Hour), Score: 2},
		})
		prev := store.Swap(ctx, next)

		Convey("Then the swap returns the previous snapshot and the held one is untouched", func() {
			So(prev, ShouldEqual, held)
			So(held.Len(), ShouldEqual, 0)
			So(store.Count(ctx), ShouldEqual, 2)
		})
	})

	Convey("Given a nil swap", t, func() {
		store := repository.NewSnapshotStore()
		store.Swap(ctx, nil)

		Convey("Then the store falls back to an empty snapshot", func() {
			So(store.Current(ctx), ShouldNotBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})
}
