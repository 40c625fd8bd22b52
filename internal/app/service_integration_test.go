package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/boringmap/internal/adapters/places"
	service "github.com/okian/boringmap/internal/app"
	"github.com/okian/boringmap/internal/domain/collect"
	"github.com/okian/boringmap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	firstPage = `{"status":"OK","next_page_token":"next","results":[
	  {"place_id":"a","name":"Blue Bar","types":["bar","point_of_interest"],"vicinity":"1 Rd","geometry":{"location":{"lat":1,"lng":2}}},
	  {"place_id":"b","name":"Corner Park","types":["park"],"vicinity":"2 Rd","geometry":{"location":{"lat":1,"lng":2}}}
	]}`
	secondPage = `{"status":"OK","results":[
	  {"place_id":"a","name":"Blue Bar","types":["bar"],"vicinity":"1 Rd","geometry":{"location":{"lat":1,"lng":2}}},
	  {"place_id":"c","name":"St. Mary","types":["church","place_of_worship"],"vicinity":"3 Rd","geometry":{"location":{"lat":1.5,"lng":2.5}}}
	]}`
)

// countingWaiter counts waits without sleeping.
type countingWaiter struct{ n atomic.Int32 }

func (w *countingWaiter) Wait(ctx context.Context, _ time.Duration) error {
	w.n.Add(1)
	return ctx.Err()
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by the places client and a fake provider", t, func() {
		ctx := context.Background()

		Convey("When the provider returns two pages", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("pagetoken") == "next" {
					_, _ = w.Write([]byte(secondPage))
					return
				}
				_, _ = w.Write([]byte(firstPage))
			}))
			defer srv.Close()

			client, err := places.New(places.WithAPIKey("k"), places.WithBaseURL(srv.URL))
			So(err, ShouldBeNil)

			waiter := &countingWaiter{}
			svc := service.New(service.WithFetcher(client), service.WithWaiter(waiter))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			res, err := svc.ComputeScore(ctx, 1, 2)

			Convey("Then the default table scores the de-duplicated places", func() {
				So(err, ShouldBeNil)
				So(waiter.n.Load(), ShouldEqual, 1)
				d := res.DetailsByCategory()
				So(d["bar"].Count, ShouldEqual, 1)
				So(d["place_of_worship"].Score, ShouldEqual, 7)
				So(res.TotalScore, ShouldEqual, 8)
				So(res.NumberOfPlaces, ShouldEqual, 2)
			})

			Convey("And place summaries carry address and location", func() {
				So(res.Places[1].Name, ShouldEqual, "St. Mary")
				So(res.Places[1].Types, ShouldResemble, []string{"place_of_worship"})
				So(res.Places[1].Address, ShouldEqual, "3 Rd")
				So(res.Places[1].Location, ShouldResemble, model.LatLng{Lat: 1.5, Lng: 2.5})
			})
		})

		Convey("When the provider rejects the key", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
			}))
			defer srv.Close()

			client, err := places.New(places.WithAPIKey("k"), places.WithBaseURL(srv.URL))
			So(err, ShouldBeNil)
			svc := service.New(service.WithFetcher(client), service.WithWaiter(&countingWaiter{}))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			_, err = svc.ComputeScore(ctx, 1, 2)

			Convey("Then an auth error reaches the caller", func() {
				So(errors.Is(err, model.ErrAuth), ShouldBeTrue)
			})
		})

		Convey("When the provider loops forever", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"OK","next_page_token":"again","results":[]}`))
			}))
			defer srv.Close()

			client, err := places.New(places.WithAPIKey("k"), places.WithBaseURL(srv.URL))
			So(err, ShouldBeNil)
			svc := service.New(
				service.WithFetcher(client),
				service.WithWaiter(&countingWaiter{}),
				service.WithMaxPages(4),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			_, err = svc.ComputeScore(ctx, 1, 2)

			Convey("Then the page cap ends it with an upstream error", func() {
				So(errors.Is(err, collect.ErrPageLimit), ShouldBeTrue)
				So(errors.Is(err, model.ErrUpstream), ShouldBeTrue)
			})
		})
	})
}
