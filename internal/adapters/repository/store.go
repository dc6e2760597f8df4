// Package repository defines the persistence interface for weeks,
// signups, settings, and goalie handle records.
package repository

import (
	"context"

	"github.com/okian/crease/internal/domain/model"
)

// Store provides read-modify-write access to the persisted facts the
// confirmation workflow derives its state from. Implementations must be
// safe for concurrent use.
type Store interface {
	// CurrentWeek returns the week for the current calendar week,
	// creating it lazily with the default quota on first access.
	CurrentWeek(ctx context.Context) (model.Week, error)

	// Week returns a week by id. Returns ErrWeekNotFound if unknown.
	Week(ctx context.Context, id int64) (model.Week, error)

	// AddSignup validates nothing; it appends an already-validated
	// signup to the current week and returns the updated week.
	AddSignup(ctx context.Context, s model.Signup) (model.Week, error)

	// SetQuota changes the quota for a week. Quota must be positive.
	SetQuota(ctx context.Context, weekID int64, quota int) error

	// ClaimGoalieNotification atomically flips GoalieNotified from
	// false to true when the quota is met. Returns true only for the
	// call that performed the transition.
	ClaimGoalieNotification(ctx context.Context, weekID int64) (bool, error)

	// WeekNeedingGoalie returns the current week when its quota is
	// reached and the goalie has been notified, i.e. a confirmation or
	// payout is still outstanding.
	WeekNeedingGoalie(ctx context.Context) (model.Week, bool)

	// GoaliePhone returns the configured goalie contact, if any.
	GoaliePhone(ctx context.Context) (string, bool)

	// SetGoaliePhone stores the goalie contact. Empty clears it.
	SetGoaliePhone(ctx context.Context, phone string) error

	// HandleRecord returns the stored payment handle for a phone.
	HandleRecord(ctx context.Context, phone string) (model.HandleRecord, bool)

	// StoreHandleRecord stores or overwrites the handle for a phone.
	// At most one record per phone; latest write wins.
	StoreHandleRecord(ctx context.Context, phone, handle string) error

	// BroadcastNumbers returns the broadcast list in insertion order.
	BroadcastNumbers(ctx context.Context) []string

	// AddBroadcastNumber appends a number to the broadcast list.
	AddBroadcastNumber(ctx context.Context, phone string) error

	// RemoveBroadcastNumber removes a number from the broadcast list.
	RemoveBroadcastNumber(ctx context.Context, phone string)

	// WeekCount returns the number of tracked weeks, for stats.
	WeekCount(ctx context.Context) int
}
