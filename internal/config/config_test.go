package config_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	config "github.com/okian/crease/internal/config"
)

func TestNew(t *testing.T) {
	Convey("Given a fresh config", t, func() {
		cfg := config.New()

		Convey("Then defaults should be sensible", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.DefaultQuota, ShouldEqual, 16)
			So(cfg.PayoutAmount, ShouldEqual, 10.00)
			So(cfg.MessageQueueSize, ShouldEqual, 10_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.DedupeSize, ShouldEqual, 50_000)
			So(cfg.SendTimeoutMS, ShouldEqual, 10_000)
		})

		Convey("And credentials should default to dry-run (empty)", func() {
			So(cfg.TwilioAccountSID, ShouldBeEmpty)
			So(cfg.PayPalClientID, ShouldBeEmpty)
			So(cfg.AdminToken, ShouldBeEmpty)
		})
	})
}
