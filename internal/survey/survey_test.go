package survey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/boringmap/internal/domain/types"
	"github.com/okian/boringmap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeService scores a point by its latitude so rankings are predictable.
// Latitude 99 answers with a 502.
func fakeService(healthy bool) (*httptest.Server, *int64) {
	var calls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("# metrics\n"))
	})
	mux.HandleFunc("/api/locationBoringness", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		lat, _ := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
		w.Header().Set("Content-Type", "application/json")
		if lat == 99 {
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: "Internal Server Error", Message: "upstream"})
			return
		}
		score := int(lat)
		resp := types.ScoreResponse{
			TotalScore: score,
			Details:    map[string]types.CategoryStat{"bar": {Count: score, Score: score}},
			Summary: types.Summary{
				NumberOfPlaces: 1,
				LocationStats:  []types.LocationStat{{Type: "bar", Count: score, Contribution: score}},
			},
			Places: []types.Place{{Name: "p", Types: []string{"bar"}, Score: score}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(mux), &calls
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv, calls := fakeService(true)
		defer srv.Close()
		ctx := context.Background()

		Convey("When three points are surveyed", func() {
			out := filepath.Join(t.TempDir(), "reports", "ranking.json")
			cfg := &Config{
				BaseURL: srv.URL,
				Points: []Point{
					{Name: "busy", Latitude: 30, Longitude: 1},
					{Name: "quiet", Latitude: 2, Longitude: 1},
					{Name: "middling", Latitude: 10, Longitude: 1},
				},
				Workers:    2,
				Timeout:    5 * time.Second,
				OutputFile: out,
			}

			ranking, err := Run(ctx, cfg)

			Convey("Then they are ranked from most to least boring", func() {
				So(err, ShouldBeNil)
				So(atomic.LoadInt64(calls), ShouldEqual, 3)
				So(ranking, ShouldHaveLength, 3)
				So(ranking[0].Name, ShouldEqual, "quiet")
				So(ranking[0].Rank, ShouldEqual, 1)
				So(ranking[2].Name, ShouldEqual, "busy")
			})

			Convey("Then the report is written", func() {
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var report Report
				So(json.Unmarshal(data, &report), ShouldBeNil)
				So(report.Ranking, ShouldHaveLength, 3)
				So(report.BaseURL, ShouldEqual, srv.URL)
			})
		})

		Convey("When some points fail", func() {
			cfg := &Config{
				BaseURL: srv.URL,
				Points: []Point{
					{Name: "broken", Latitude: 99, Longitude: 1},
					{Name: "fine", Latitude: 5, Longitude: 1},
				},
				Workers: 1,
				Timeout: 5 * time.Second,
			}

			ranking, err := Run(ctx, cfg)

			Convey("Then failures are left out of the ranking", func() {
				So(err, ShouldBeNil)
				So(ranking, ShouldHaveLength, 1)
				So(ranking[0].Name, ShouldEqual, "fine")
			})
		})

		Convey("When every point fails", func() {
			cfg := &Config{
				BaseURL: srv.URL,
				Points:  []Point{{Name: "broken", Latitude: 99}},
				Workers: 1,
				Timeout: 5 * time.Second,
			}

			_, err := Run(ctx, cfg)

			Convey("Then the run reports an error", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When there are no points", func() {
			_, err := Run(ctx, &Config{BaseURL: srv.URL})

			Convey("Then it refuses to run", func() {
				So(err, ShouldEqual, ErrNoPoints)
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv, calls := fakeService(false)
		defer srv.Close()

		_, err := Run(context.Background(), &Config{
			BaseURL: srv.URL,
			Points:  []Point{{Name: "a", Latitude: 1}},
			Workers: 1,
			Timeout: time.Second,
		})

		Convey("Then nothing is scored", func() {
			So(err, ShouldNotBeNil)
			So(atomic.LoadInt64(calls), ShouldEqual, 0)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given scored and failed outcomes", t, func() {
		ok := func(name string, total, places int) Outcome {
			return Outcome{
				Point:  Point{Name: name},
				Status: StatusOK,
				Score:  types.ScoreResponse{TotalScore: total, Summary: types.Summary{NumberOfPlaces: places}},
			}
		}
		outcomes := []Outcome{
			ok("c", 5, 3),
			ok("b", 5, 1),
			{Point: Point{Name: "x"}, Status: 502, Err: "HTTP 502"},
			ok("a", 5, 1),
			ok("z", 0, 0),
		}

		ranked := Rank(outcomes)

		Convey("Then ties break on places then name", func() {
			names := make([]string, 0, len(ranked))
			for _, r := range ranked {
				names = append(names, r.Name)
			}
			So(names, ShouldResemble, []string{"z", "a", "b", "c"})
			So(ranked[3].Rank, ShouldEqual, 4)
		})
	})
}

func TestVerifyScore(t *testing.T) {
	Convey("Given a consistent response", t, func() {
		s := types.ScoreResponse{
			TotalScore: 6,
			Details: map[string]types.CategoryStat{
				"bar":    {Count: 2, Score: 6},
				"casino": {Count: 0, Score: 0},
			},
			Summary: types.Summary{
				NumberOfPlaces: 2,
				LocationStats: []types.LocationStat{
					{Type: "bar", Count: 2, Contribution: 6},
					{Type: "casino"},
				},
			},
			Places: []types.Place{{Name: "a"}, {Name: "b"}},
		}

		Convey("Then it verifies", func() {
			So(verifyScore(s), ShouldBeNil)
		})

		Convey("When the total disagrees with the details", func() {
			s.TotalScore = 7
			So(verifyScore(s), ShouldNotBeNil)
		})

		Convey("When a zero-hit category scores", func() {
			s.Details["casino"] = types.CategoryStat{Score: 1}
			s.TotalScore = 7
			So(verifyScore(s), ShouldNotBeNil)
		})

		Convey("When the place count disagrees", func() {
			s.Summary.NumberOfPlaces = 3
			So(verifyScore(s), ShouldNotBeNil)
		})
	})
}

func TestPoints(t *testing.T) {
	Convey("ParsePoints reads semicolon separated pairs", t, func() {
		pts, err := ParsePoints("40.7128,-74.0060; 51.5,-0.12 ;")
		So(err, ShouldBeNil)
		So(pts, ShouldHaveLength, 2)
		So(pts[0].Latitude, ShouldEqual, 40.7128)
		So(pts[1].Longitude, ShouldEqual, -0.12)

		_, err = ParsePoints("40.7")
		So(err, ShouldNotBeNil)
		_, err = ParsePoints("abc,1")
		So(err, ShouldNotBeNil)
	})

	Convey("LoadPoints reads a JSON file and names anonymous points", t, func() {
		path := filepath.Join(t.TempDir(), "points.json")
		So(os.WriteFile(path, []byte(`[{"name":"home","latitude":1,"longitude":2},{"latitude":3.5,"longitude":4}]`), 0o600), ShouldBeNil)

		pts, err := LoadPoints(path)
		So(err, ShouldBeNil)
		So(pts, ShouldHaveLength, 2)
		So(pts[0].Name, ShouldEqual, "home")
		So(pts[1].Name, ShouldEqual, "3.5,4")

		_, err = LoadPoints(filepath.Join(t.TempDir(), "missing.json"))
		So(err, ShouldNotBeNil)
	})

	Convey("Grid lays points around the center", t, func() {
		pts := Grid(Point{Name: "c", Latitude: 10, Longitude: 20}, 1, 3, 3)
		So(pts, ShouldHaveLength, 9)
		So(pts[0].Latitude, ShouldEqual, 11)
		So(pts[0].Longitude, ShouldEqual, 19)
		So(pts[4].Latitude, ShouldEqual, 10)
		So(pts[4].Longitude, ShouldEqual, 20)
		So(pts[4].Name, ShouldEqual, "c[1,1]")
		So(Grid(Point{}, 1, 0, 3), ShouldBeNil)
	})
}
