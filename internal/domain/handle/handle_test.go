package handle_test

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	handle "github.com/okian/crease/internal/domain/handle"
)

func TestExtract(t *testing.T) {
	Convey("Given the handle extractor", t, func() {
		Convey("When the message contains a bare @handle", func() {
			h, ok := handle.Extract("my venmo is @jane.doe")

			Convey("Then the token should be captured without the @", func() {
				So(ok, ShouldBeTrue)
				So(h, ShouldEqual, "jane.doe")
			})
		})

		Convey("When the message uses the venmo keyword", func() {
			h, ok := handle.Extract("venmo: bobsmith")
			So(ok, ShouldBeTrue)
			So(h, ShouldEqual, "bobsmith")
		})

		Convey("When the keyword is cased differently", func() {
			h, ok := handle.Extract("My Venmo is JaneDoe99")

			Convey("Then the keyword matches but token case is preserved", func() {
				So(ok, ShouldBeTrue)
				So(h, ShouldEqual, "JaneDoe99")
			})
		})

		Convey("When the message uses the username keyword", func() {
			h, ok := handle.Extract("username: @rinkrat")
			So(ok, ShouldBeTrue)
			So(h, ShouldEqual, "rinkrat")
		})

		Convey("When the message has no handle", func() {
			_, ok := handle.Extract("no handle here")
			So(ok, ShouldBeFalse)
		})

		Convey("When the candidate is too short", func() {
			_, ok := handle.Extract("reply to @ab please")
			So(ok, ShouldBeFalse)
		})

		Convey("When the candidate is too long", func() {
			_, ok := handle.Extract("@" + strings.Repeat("x", 31))
			So(ok, ShouldBeFalse)
		})

		Convey("When the candidate starts with a period", func() {
			_, ok := handle.Extract("@.hidden")
			So(ok, ShouldBeFalse)
		})
	})
}
