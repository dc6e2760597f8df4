package sms_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	sms "github.com/okian/crease/internal/adapters/sms"
	model "github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMessenger_DryRun(t *testing.T) {
	Convey("Given a messenger without credentials", t, func() {
		m := sms.New()

		Convey("When sending a message", func() {
			err := m.Send(context.Background(), "+15551234567", "hello")

			Convey("Then the dry-run path succeeds without a transport", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestFormatSignupList(t *testing.T) {
	Convey("Given a roster of signups", t, func() {
		created := time.Date(2026, 2, 20, 18, 30, 0, 0, time.UTC)
		signups := []model.Signup{
			{Name: "Jane Doe", Phone: "+15551234567", CreatedAt: created},
			{Name: "Bob Smith", CreatedAt: created},
		}

		Convey("When formatting the list", func() {
			out := sms.FormatSignupList(signups)

			Convey("Then each entry is numbered with name, phone, and time", func() {
				So(out, ShouldContainSubstring, "Weekly Skate Signups:")
				So(out, ShouldContainSubstring, "1. Jane Doe +15551234567 - 2026-02-20 18:30")
				So(out, ShouldContainSubstring, "2. Bob Smith (no phone) - 2026-02-20 18:30")
			})
		})

		Convey("When the roster is empty", func() {
			So(sms.FormatSignupList(nil), ShouldEqual, "No signups yet.")
		})
	})
}
