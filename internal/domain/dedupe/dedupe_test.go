package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	dedupe "github.com/okian/boringmap/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new Set", t, func() {
		Convey("When created with default options", func() {
			d := dedupe.New()

			Convey("Then it is empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording place ids", func() {
			d := dedupe.New()

			Convey("And the id is new", func() {
				seen := d.SeenAndRecord(ctx, "ChIJ-1")

				Convey("Then it reports unseen and records it", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the id was already recorded", func() {
				d.SeenAndRecord(ctx, "ChIJ-1")
				seen := d.SeenAndRecord(ctx, "ChIJ-1")

				Convey("Then it reports seen", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the id is empty", func() {
				first := d.SeenAndRecord(ctx, "")
				second := d.SeenAndRecord(ctx, "")

				Convey("Then it is never treated as a duplicate", func() {
					So(first, ShouldBeFalse)
					So(second, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When many ids are recorded", func() {
			d := dedupe.New()
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
			}

			Convey("Then every id is kept", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "id-0"), ShouldBeTrue)
			})
		})
	})
}
