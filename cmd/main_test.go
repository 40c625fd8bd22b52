package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/boringmap/internal/config"
	"github.com/okian/boringmap/internal/domain/types"
	"github.com/okian/boringmap/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const placesPage = `{"status":"OK","results":[
  {"place_id":"x","name":"Lucky 7","types":["casino","liquor_store"],"vicinity":"7 Strip","geometry":{"location":{"lat":36.1,"lng":-115.1}}}
]}`

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the application wired against a fake places provider", t, func() {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("key") != "test-key" {
				_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
				return
			}
			_, _ = w.Write([]byte(placesPage))
		}))
		defer provider.Close()

		_ = os.Setenv("BORING_PLACES_API_KEY", "test-key")
		_ = os.Setenv("BORING_PLACES_BASE_URL", provider.URL)
		_ = os.Setenv("BORING_PAGE_DELAY_MS", "0")
		_ = os.Setenv("BORING_ENVIRONMENT", "test")
		defer func() {
			for _, k := range []string{"BORING_PLACES_API_KEY", "BORING_PLACES_BASE_URL", "BORING_PAGE_DELAY_MS", "BORING_ENVIRONMENT"} {
				_ = os.Unsetenv(k)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc, err := newService(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, cfg, svc, logger.Get())

		convey.Convey("When a location is scored over HTTP", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/locationBoringness?latitude=36.1&longitude=-115.1", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			var body types.ScoreResponse
			convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)

			convey.Convey("Then the default weights apply", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(body.TotalScore, convey.ShouldEqual, 11)
				convey.So(body.Summary.NumberOfPlaces, convey.ShouldEqual, 1)
				convey.So(body.Details, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When the docs and info routes are requested", func() {
			for path, want := range map[string]int{
				"/":             http.StatusOK,
				"/test":         http.StatusOK,
				"/api-docs":     http.StatusOK,
				"/openapi.yaml": http.StatusOK,
				"/healthz":      http.StatusOK,
				"/nope":         http.StatusNotFound,
			} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})
	})
}

func TestNewServiceErrors(t *testing.T) {
	convey.Convey("Given an invalid weight table", t, func() {
		cfg := config.New()
		cfg.PlacesAPIKey = "k"
		cfg.CategoryWeights = map[string]int{"bar": 0}

		_, err := newService(context.Background(), cfg, logger.Get())

		convey.Convey("Then the service is not built", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When system metrics are updated", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
