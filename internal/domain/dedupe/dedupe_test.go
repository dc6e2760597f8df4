package dedupe_test

import (
	"context"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	dedupe "github.com/okian/crease/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a fresh message id", func() {
			seen := d.SeenAndRecord(ctx, "SM123")

			Convey("Then it should report not seen and remember it", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report seen", func() {
				So(d.SeenAndRecord(ctx, "SM123"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an id", func() {
			d.SeenAndRecord(ctx, "SM456")
			d.Unrecord(ctx, "SM456")

			Convey("Then the id can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "SM456"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown id", func() {
			d.Unrecord(ctx, "never-seen")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper with a small max size", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When more ids are recorded than the bound", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, "id-"+strconv.Itoa(i)), ShouldBeFalse)
			}

			Convey("Then the size should stay at the bound", func() {
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("And the most recent ids should still be remembered", func() {
				So(d.SeenAndRecord(ctx, "id-4"), ShouldBeTrue)
			})
		})
	})
}
