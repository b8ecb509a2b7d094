package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gainboard/gainboard/internal/adapters/source"
	app "github.com/gainboard/gainboard/internal/app"
	"github.com/gainboard/gainboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newService(t *testing.T, csv, names string) *app.Service {
	t.Helper()
	dir := t.TempDir()
	opts := []app.Option{
		app.WithRecordSource(source.NewCSVSource(writeFile(t, dir, "data.csv", csv))),
		app.WithWatch(false),
	}
	if names != "" {
		opts = append(opts, app.WithNamesFile(writeFile(t, dir, "selected_users.txt", names)))
	}
	return app.New(opts...)
}

const sampleCSV = "name,timestamp,score\n" +
	"alice,2024-05-01 10:00:00,10\n" +
	"alice,2024-05-01 11:00:00,30\n" +
	"alice,2024-05-01 13:00:00,20\n" +
	"bob,2024-05-01 10:00:00,5\n" +
	"bob,2024-05-01 12:00:00,50\n"

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service without a record source", t, func() {
		Convey("Then Start refuses to run", func() {
			So(errors.Is(app.New().Start(ctx), app.ErrNoRecordSource), ShouldBeTrue)
		})
	})

	Convey("Given a CSV-backed service", t, func() {
		svc := newService(t, sampleCSV, "alice\nmissing-player\n")
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then all-time gains rank players by max minus min", func() {
			entries := svc.Gains(ctx, time.Now().UTC(), nil, nil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Player, ShouldEqual, "bob")
			So(entries[0].Gain, ShouldEqual, 45)
			So(entries[1].Player, ShouldEqual, "alice")
			So(entries[1].Gain, ShouldEqual, 20)
		})

		Convey("Then an allow set restricts the leaderboard", func() {
			entries := svc.Gains(ctx, time.Now().UTC(), nil, map[string]struct{}{"alice": {}})
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Player, ShouldEqual, "alice")
		})

		Convey("Then rolling gains anchor before the peak", func() {
			records := svc.RollingGains(ctx, 2*time.Hour)
			So(len(records), ShouldEqual, 2)
			So(records[0].Player, ShouldEqual, "bob")
			So(records[0].MaxGain, ShouldEqual, 45)
			So(records[1].MaxGain, ShouldEqual, 20)
		})

		Convey("Then the progression series forward-fills the union axis", func() {
			result := svc.Progression(ctx, 2, 1)
			So(len(result.Points), ShouldBeGreaterThan, 0)
			So(len(result.Labels), ShouldEqual, 1)
		})

		Convey("Then seasonal matches only names present in the history", func() {
			entries, missing := svc.Seasonal(ctx)
			So(missing, ShouldBeFalse)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Player, ShouldEqual, "alice")
			So(entries[0].HighestScore, ShouldEqual, 30)
		})

		Convey("Then stats report the loaded snapshot", func() {
			stats := svc.GetStats()
			So(stats["observations"], ShouldEqual, 5)
			So(stats["players"], ShouldEqual, 2)
			So(stats["rosterMissing"], ShouldBeFalse)
		})
	})

	Convey("Given a service without a roster file", t, func() {
		svc := newService(t, sampleCSV, "")
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then seasonal reports the missing list, not an error", func() {
			entries, missing := svc.Seasonal(ctx)
			So(missing, ShouldBeTrue)
			So(len(entries), ShouldEqual, 0)
		})
	})

	Convey("Given a data file that stops parsing after the first load", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "data.csv", sampleCSV)
		svc := app.New(
			app.WithRecordSource(source.NewCSVSource(path)),
			app.WithWatch(false),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(os.WriteFile(path, []byte("name,timestamp,score\nalice,garbage,1\n"), 0o600), ShouldBeNil)

		Convey("Then Reload fails and the previous snapshot keeps serving", func() {
			So(svc.Reload(ctx), ShouldNotBeNil)
			So(len(svc.Gains(ctx, time.Now().UTC(), nil, nil)), ShouldEqual, 2)
		})
	})

	Convey("Given a reload with new data", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "data.csv", sampleCSV)
		svc := app.New(
			app.WithRecordSource(source.NewCSVSource(path)),
			app.WithWatch(false),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		next := "name,timestamp,score\n" +
			"carol,2024-05-02 10:00:00,1\n" +
			"carol,2024-05-02 11:00:00,9\n"
		So(os.WriteFile(path, []byte(next), 0o600), ShouldBeNil)

		Convey("Then queries see the new snapshot", func() {
			So(svc.Reload(ctx), ShouldBeNil)
			entries := svc.Gains(ctx, time.Now().UTC(), nil, nil)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Player, ShouldEqual, "carol")
			So(entries[0].Gain, ShouldEqual, 8)
		})
	})
}
