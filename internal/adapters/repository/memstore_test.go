package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/okian/crease/internal/adapters/repository"
	model "github.com/okian/crease/internal/domain/model"
)

func TestMemStore_Weeks(t *testing.T) {
	Convey("Given a new memory store", t, func() {
		s := repository.NewMemStore(repository.WithDefaultQuota(2))
		ctx := context.Background()

		Convey("When the current week is first accessed", func() {
			w, err := s.CurrentWeek(ctx)

			Convey("Then it should be created lazily with the default quota", func() {
				So(err, ShouldBeNil)
				So(w.ID, ShouldEqual, 1)
				So(w.Quota, ShouldEqual, 2)
				So(w.Count(), ShouldEqual, 0)
				So(w.GoalieNotified, ShouldBeFalse)
			})

			Convey("And accessing it again should return the same week", func() {
				again, err := s.CurrentWeek(ctx)
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, w.ID)
				So(s.WeekCount(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a different calendar week begins", func() {
			base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
			now := base
			clocked := repository.NewMemStore(repository.WithClock(func() time.Time { return now }))

			first, err := clocked.CurrentWeek(ctx)
			So(err, ShouldBeNil)

			now = base.AddDate(0, 0, 7)
			second, err := clocked.CurrentWeek(ctx)
			So(err, ShouldBeNil)

			Convey("Then a new week should be created", func() {
				So(second.ID, ShouldNotEqual, first.ID)
				So(clocked.WeekCount(ctx), ShouldEqual, 2)
			})
		})

		Convey("When looking up an unknown week id", func() {
			_, err := s.Week(ctx, 999)
			So(err, ShouldEqual, repository.ErrWeekNotFound)
		})

		Convey("When setting a quota", func() {
			w, _ := s.CurrentWeek(ctx)

			Convey("Then a positive quota should stick", func() {
				So(s.SetQuota(ctx, w.ID, 10), ShouldBeNil)
				got, err := s.Week(ctx, w.ID)
				So(err, ShouldBeNil)
				So(got.Quota, ShouldEqual, 10)
			})

			Convey("And a non-positive quota should be rejected", func() {
				So(s.SetQuota(ctx, w.ID, 0), ShouldEqual, repository.ErrInvalidQuota)
			})
		})
	})
}

func TestMemStore_NotificationClaim(t *testing.T) {
	Convey("Given a store with quota 2 and exactly 2 signups", t, func() {
		s := repository.NewMemStore(repository.WithDefaultQuota(2))
		ctx := context.Background()

		now := time.Now()
		_, err := s.AddSignup(ctx, model.Signup{Name: "a", CreatedAt: now})
		So(err, ShouldBeNil)
		week, err := s.AddSignup(ctx, model.Signup{Name: "b", CreatedAt: now})
		So(err, ShouldBeNil)
		So(week.QuotaReached(), ShouldBeTrue)

		Convey("When the claim is invoked twice in a row", func() {
			first, err := s.ClaimGoalieNotification(ctx, week.ID)
			So(err, ShouldBeNil)
			second, err := s.ClaimGoalieNotification(ctx, week.ID)
			So(err, ShouldBeNil)

			Convey("Then only the first call should win", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
			})

			Convey("And the flag should be set on the week", func() {
				got, err := s.Week(ctx, week.ID)
				So(err, ShouldBeNil)
				So(got.GoalieNotified, ShouldBeTrue)
			})
		})

		Convey("When the quota is not yet met", func() {
			fresh := repository.NewMemStore(repository.WithDefaultQuota(2))
			w, err := fresh.AddSignup(ctx, model.Signup{Name: "only"})
			So(err, ShouldBeNil)

			claimed, err := fresh.ClaimGoalieNotification(ctx, w.ID)
			So(err, ShouldBeNil)
			So(claimed, ShouldBeFalse)
		})

		Convey("When the goalie has been notified", func() {
			_, err := s.ClaimGoalieNotification(ctx, week.ID)
			So(err, ShouldBeNil)

			Convey("Then the week needs a goalie", func() {
				needing, ok := s.WeekNeedingGoalie(ctx)
				So(ok, ShouldBeTrue)
				So(needing.ID, ShouldEqual, week.ID)
			})
		})

		Convey("When the goalie has not been notified", func() {
			_, ok := s.WeekNeedingGoalie(ctx)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMemStore_SettingsAndHandles(t *testing.T) {
	Convey("Given a new memory store", t, func() {
		s := repository.NewMemStore()
		ctx := context.Background()

		Convey("When no goalie phone is set", func() {
			_, ok := s.GoaliePhone(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("When a goalie phone is stored", func() {
			So(s.SetGoaliePhone(ctx, "+15551234567"), ShouldBeNil)
			phone, ok := s.GoaliePhone(ctx)
			So(ok, ShouldBeTrue)
			So(phone, ShouldEqual, "+15551234567")

			Convey("And clearing it with an empty string works", func() {
				So(s.SetGoaliePhone(ctx, ""), ShouldBeNil)
				_, ok := s.GoaliePhone(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the goalie phone is malformed", func() {
			So(s.SetGoaliePhone(ctx, "not-a-phone"), ShouldEqual, repository.ErrInvalidPhone)
		})

		Convey("When a handle is stored twice for one phone", func() {
			So(s.StoreHandleRecord(ctx, "+15551234567", "first"), ShouldBeNil)
			So(s.StoreHandleRecord(ctx, "+15551234567", "second"), ShouldBeNil)

			Convey("Then the latest write wins", func() {
				rec, ok := s.HandleRecord(ctx, "+15551234567")
				So(ok, ShouldBeTrue)
				So(rec.Handle, ShouldEqual, "second")
			})
		})

		Convey("When storing an empty handle", func() {
			So(s.StoreHandleRecord(ctx, "+15551234567", ""), ShouldEqual, repository.ErrEmptyHandle)
		})

		Convey("When managing the broadcast list", func() {
			So(s.AddBroadcastNumber(ctx, "+15551110001"), ShouldBeNil)
			So(s.AddBroadcastNumber(ctx, "+15551110002"), ShouldBeNil)

			Convey("Then insertion order is preserved", func() {
				So(s.BroadcastNumbers(ctx), ShouldResemble, []string{"+15551110001", "+15551110002"})
			})

			Convey("And duplicates are rejected", func() {
				So(s.AddBroadcastNumber(ctx, "+15551110001"), ShouldEqual, repository.ErrDuplicateItem)
			})

			Convey("And removal keeps the rest", func() {
				s.RemoveBroadcastNumber(ctx, "+15551110001")
				So(s.BroadcastNumbers(ctx), ShouldResemble, []string{"+15551110002"})
			})
		})
	})
}
