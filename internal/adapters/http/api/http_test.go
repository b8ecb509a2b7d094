package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gainboard/gainboard/internal/adapters/http/api"
	"github.com/gainboard/gainboard/internal/domain/progression"
	"github.com/gainboard/gainboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps records the arguments of the last call so handler parsing can be
// asserted without real snapshots behind it.
type stubDeps struct {
	gotWindow  *time.Duration
	gotAllow   map[string]struct{}
	gotRolling time.Duration
	gotCohort  int
	gotLabels  int

	seasonalEntries []types.SeasonalRankEntry
	rosterMissing   bool
	reloadErr       error
}

func (s *stubDeps) Gains(_ context.Context, _ time.Time, window *time.Duration, allow map[string]struct{}) []types.GainEntry {
	s.gotWindow = window
	s.gotAllow = allow
	return []types.GainEntry{{Player: "A", Gain: 5}}
}

func (s *stubDeps) RollingGains(_ context.Context, window time.Duration) []types.RollingGain {
	s.gotRolling = window
	return []types.RollingGain{}
}

func (s *stubDeps) Progression(_ context.Context, cohort, labels int) progression.Result {
	s.gotCohort = cohort
	s.gotLabels = labels
	return progression.Result{}
}

func (s *stubDeps) Seasonal(_ context.Context) ([]types.SeasonalRankEntry, bool) {
	return s.seasonalEntries, s.rosterMissing
}

func (s *stubDeps) Reload(_ context.Context) error { return s.reloadErr }

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"observations": 0}
}

func newTestServer(deps *stubDeps) *http.ServeMux {
	limits := api.Limits{
		MinWindow:  time.Hour,
		MaxWindow:  168 * time.Hour,
		MinRolling: time.Hour,
		MaxRolling: 168 * time.Hour,

		DefaultCohort: 20,
		DefaultLabels: 5,
		MaxCohort:     100,
	}
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}, limits).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGainsHandler(t *testing.T) {
	Convey("Given the gains endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestServer(deps)

		Convey("When no window is given", func() {
			rec := get(mux, "/gains")

			Convey("Then the query runs over all time", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotWindow, ShouldBeNil)
			})
		})

		Convey("When the 24h preset is given", func() {
			rec := get(mux, "/gains?window=24h")

			Convey("Then the window is one day", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(*deps.gotWindow, ShouldEqual, 24*time.Hour)
			})
		})

		Convey("When custom hours are inside bounds", func() {
			rec := get(mux, "/gains?hours=48")

			Convey("Then the custom window applies", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(*deps.gotWindow, ShouldEqual, 48*time.Hour)
			})
		})

		Convey("When hours exceed the configured maximum", func() {
			rec := get(mux, "/gains?hours=500")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the window preset is unknown", func() {
			So(get(mux, "/gains?window=1y").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When names are given", func() {
			rec := get(mux, "/gains?names=alice,bob")

			Convey("Then the allow set reaches the service", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(len(deps.gotAllow), ShouldEqual, 2)
				_, ok := deps.gotAllow["alice"]
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestRollingHandler(t *testing.T) {
	Convey("Given the rolling endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestServer(deps)

		Convey("When no hours are given", func() {
			rec := get(mux, "/rolling")

			Convey("Then the window defaults to four hours", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotRolling, ShouldEqual, 4*time.Hour)
			})
		})

		Convey("When hours are out of bounds", func() {
			So(get(mux, "/rolling?hours=0").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/rolling?hours=200").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestProgressionHandler(t *testing.T) {
	Convey("Given the progression endpoint", t, func() {
		deps := &stubDeps{}
		mux := newTestServer(deps)

		Convey("When no parameters are given", func() {
			rec := get(mux, "/progression")

			Convey("Then configured defaults apply", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotCohort, ShouldEqual, 20)
				So(deps.gotLabels, ShouldEqual, 5)
			})
		})

		Convey("When labels exceed the cohort", func() {
			rec := get(mux, "/progression?cohort=3&labels=10")

			Convey("Then labels clamp to the cohort", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotCohort, ShouldEqual, 3)
				So(deps.gotLabels, ShouldEqual, 3)
			})
		})

		Convey("When the cohort exceeds the cap", func() {
			So(get(mux, "/progression?cohort=500").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a parameter is not a positive integer", func() {
			So(get(mux, "/progression?cohort=abc").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/progression?labels=-1").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSeasonalHandler(t *testing.T) {
	Convey("Given a missing roster file", t, func() {
		deps := &stubDeps{rosterMissing: true}
		mux := newTestServer(deps)
		rec := get(mux, "/seasonal")

		Convey("Then the response flags the roster, not an HTTP error", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Entries       []types.SeasonalRankEntry `json:"entries"`
				RosterMissing bool                      `json:"roster_missing"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.RosterMissing, ShouldBeTrue)
			So(len(body.Entries), ShouldEqual, 0)
		})
	})
}

func TestReloadHandler(t *testing.T) {
	Convey("Given the reload endpoint", t, func() {
		Convey("When triggered with GET", func() {
			So(get(newTestServer(&stubDeps{}), "/reload").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the reload succeeds", func() {
			rec := httptest.NewRecorder()
			newTestServer(&stubDeps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the reload fails", func() {
			deps := &stubDeps{reloadErr: errors.New("file vanished")}
			rec := httptest.NewRecorder()
			newTestServer(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		rec := get(newTestServer(&stubDeps{}), "/stats")

		Convey("Then it serves the provider's JSON", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "observations")
		})
	})
}
