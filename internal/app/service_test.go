package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	app "github.com/okian/crease/internal/app"
	model "github.com/okian/crease/internal/domain/model"
	"github.com/okian/crease/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newStartedService builds a service in dry-run mode (no credentials)
// with a small quota so notification paths are reachable.
func newStartedService(ctx context.Context) *app.Service {
	svc := app.New(
		app.WithDefaultQuota(2),
		app.WithWorkerCount(1),
		app.WithQueueSize(16),
		app.WithSendTimeout(time.Second),
	)
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func TestService_SignupFlow(t *testing.T) {
	Convey("Given a started service with quota 2", t, func() {
		ctx := context.Background()
		svc := newStartedService(ctx)
		defer svc.Stop()

		So(svc.SetGoaliePhone(ctx, "+15559990000"), ShouldBeNil)

		Convey("When the first signup arrives", func() {
			week, err := svc.AddSignup(ctx, "Jane Doe", "+15551234567")

			Convey("Then the roster grows but no notification fires", func() {
				So(err, ShouldBeNil)
				So(week.Count(), ShouldEqual, 1)

				current, err := svc.CurrentWeek(ctx)
				So(err, ShouldBeNil)
				So(current.GoalieNotified, ShouldBeFalse)
			})
		})

		Convey("When the quota is reached", func() {
			_, err := svc.AddSignup(ctx, "Jane Doe", "+15551234567")
			So(err, ShouldBeNil)
			_, err = svc.AddSignup(ctx, "Bob Smith", "")
			So(err, ShouldBeNil)

			Convey("Then the goalie notification is claimed exactly once", func() {
				current, err := svc.CurrentWeek(ctx)
				So(err, ShouldBeNil)
				So(current.GoalieNotified, ShouldBeTrue)
			})

			Convey("And further signups do not re-notify", func() {
				_, err := svc.AddSignup(ctx, "Late Arrival", "")
				So(err, ShouldBeNil)

				current, err := svc.CurrentWeek(ctx)
				So(err, ShouldBeNil)
				So(current.GoalieNotified, ShouldBeTrue)
				So(current.Count(), ShouldEqual, 3)
			})
		})

		Convey("When the signup is invalid", func() {
			_, err := svc.AddSignup(ctx, "   ", "")
			So(err, ShouldEqual, model.ErrNameRequired)

			_, err = svc.AddSignup(ctx, "Jane", "555-1234")
			So(err, ShouldEqual, model.ErrInvalidPhone)
		})
	})
}

func TestService_InboundAndDedupe(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(ctx)
		defer svc.Stop()

		Convey("When recording a message id twice", func() {
			So(svc.SeenAndRecord(ctx, "SM1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "SM1"), ShouldBeTrue)

			Convey("And unrecording allows a retry", func() {
				svc.Unrecord(ctx, "SM1")
				So(svc.SeenAndRecord(ctx, "SM1"), ShouldBeFalse)
			})
		})

		Convey("When enqueueing an inbound message", func() {
			ok := svc.EnqueueInbound(ctx, model.InboundMessage{
				MessageID: "SM2",
				From:      "+15559990000",
				Body:      "got a goalie",
				Received:  time.Now(),
			})
			So(ok, ShouldBeTrue)
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats, ShouldContainKey, "queueLength")
			So(stats, ShouldContainKey, "currentWeek")
		})
	})
}

func TestService_AdminOperations(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService(ctx)
		defer svc.Stop()

		Convey("When notifying without a goalie phone", func() {
			So(svc.NotifyGoalie(ctx), ShouldEqual, app.ErrNoGoaliePhone)
		})

		Convey("When paying without a handle on file", func() {
			So(svc.SetGoaliePhone(ctx, "+15559990000"), ShouldBeNil)
			So(svc.PayGoalie(ctx), ShouldEqual, app.ErrNoHandleOnFile)
		})

		Convey("When notifying with a goalie phone in dry-run mode", func() {
			So(svc.SetGoaliePhone(ctx, "+15559990000"), ShouldBeNil)
			So(svc.NotifyGoalie(ctx), ShouldBeNil)
		})

		Convey("When changing the quota", func() {
			week, err := svc.SetQuota(ctx, 8)
			So(err, ShouldBeNil)
			So(week.Quota, ShouldEqual, 8)
		})

		Convey("When broadcasting the roster", func() {
			So(svc.AddBroadcastNumber(ctx, "+15551110001"), ShouldBeNil)
			So(svc.AddBroadcastNumber(ctx, "+15551110002"), ShouldBeNil)

			sent, err := svc.BroadcastRoster(ctx)
			So(err, ShouldBeNil)
			So(sent, ShouldEqual, 2)

			Convey("And removal shrinks the list", func() {
				svc.RemoveBroadcastNumber(ctx, "+15551110001")
				So(svc.BroadcastNumbers(ctx), ShouldResemble, []string{"+15551110002"})
			})
		})

		Convey("When sending a test SMS in dry-run mode", func() {
			So(svc.SendSMS(ctx, "+15551234567", "ping"), ShouldBeNil)
		})
	})
}
