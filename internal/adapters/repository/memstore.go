package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/crease/internal/domain/model"
)

// In-memory Store implementation.
//
// All mutations run under a single mutex, which gives the
// read-modify-write semantics the workflow relies on (notably the
// notify-once claim and the overwrite-only handle records). Weeks are
// keyed by ISO (year, week) and never deleted.

// weekKey identifies a week by its ISO calendar coordinates.
type weekKey struct {
	year int
	week int
}

// MemStore implements Store with plain maps guarded by a mutex.
type MemStore struct {
	mu sync.RWMutex

	weeks  map[weekKey]*model.Week
	byID   map[int64]*model.Week
	nextID int64

	goaliePhone string
	handles     map[string]model.HandleRecord
	broadcast   []string

	defaultQuota int
	now          func() time.Time
}

// Default quota assigned to lazily created weeks.
const defaultWeekQuota = 16

// NewMemStore creates an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		weeks:        make(map[weekKey]*model.Week),
		byID:         make(map[int64]*model.Week),
		nextID:       1,
		handles:      make(map[string]model.HandleRecord),
		defaultQuota: defaultWeekQuota,
		now:          time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// currentLocked returns the current week, creating it if needed.
// Caller holds s.mu for writing.
func (s *MemStore) currentLocked() *model.Week {
	year, week := s.now().ISOWeek()
	key := weekKey{year: year, week: week}
	if w, ok := s.weeks[key]; ok {
		return w
	}

	w := &model.Week{
		ID:      s.nextID,
		ISOYear: year,
		ISOWeek: week,
		Quota:   s.defaultQuota,
	}
	s.nextID++
	s.weeks[key] = w
	s.byID[w.ID] = w
	return w
}

// snapshot copies a week so callers never alias internal state.
func snapshot(w *model.Week) model.Week {
	out := *w
	out.Signups = make([]model.Signup, len(w.Signups))
	copy(out.Signups, w.Signups)
	return out
}

// CurrentWeek returns the current week, creating it lazily.
func (s *MemStore) CurrentWeek(_ context.Context) (model.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.currentLocked()), nil
}

// Week returns a week by id.
func (s *MemStore) Week(_ context.Context, id int64) (model.Week, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.byID[id]
	if !ok {
		return model.Week{}, ErrWeekNotFound
	}
	return snapshot(w), nil
}

// AddSignup appends a signup to the current week.
func (s *MemStore) AddSignup(_ context.Context, sig model.Signup) (model.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.currentLocked()
	w.Signups = append(w.Signups, sig)
	return snapshot(w), nil
}

// SetQuota changes the quota for a week.
func (s *MemStore) SetQuota(_ context.Context, weekID int64, quota int) error {
	if quota < 1 {
		return ErrInvalidQuota
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[weekID]
	if !ok {
		return ErrWeekNotFound
	}
	w.Quota = quota
	return nil
}

// ClaimGoalieNotification atomically flips GoalieNotified false->true
// when the quota is met. The flag is monotonic; it never goes back.
func (s *MemStore) ClaimGoalieNotification(_ context.Context, weekID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[weekID]
	if !ok {
		return false, ErrWeekNotFound
	}
	if w.GoalieNotified || len(w.Signups) < w.Quota {
		return false, nil
	}
	w.GoalieNotified = true
	return true, nil
}

// WeekNeedingGoalie returns the current week when quota is reached and
// the goalie has been notified.
func (s *MemStore) WeekNeedingGoalie(_ context.Context) (model.Week, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.currentLocked()
	if w.GoalieNotified && len(w.Signups) >= w.Quota {
		return snapshot(w), true
	}
	return model.Week{}, false
}

// GoaliePhone returns the configured goalie contact, if any.
func (s *MemStore) GoaliePhone(_ context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.goaliePhone == "" {
		return "", false
	}
	return s.goaliePhone, true
}

// SetGoaliePhone stores the goalie contact. Empty clears it.
func (s *MemStore) SetGoaliePhone(_ context.Context, phone string) error {
	if phone != "" && !model.IsE164(phone) {
		return ErrInvalidPhone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goaliePhone = phone
	return nil
}

// HandleRecord returns the stored payment handle for a phone.
func (s *MemStore) HandleRecord(_ context.Context, phone string) (model.HandleRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.handles[phone]
	return rec, ok
}

// StoreHandleRecord stores or overwrites the handle for a phone.
func (s *MemStore) StoreHandleRecord(_ context.Context, phone, h string) error {
	if h == "" {
		return ErrEmptyHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.handles[phone]
	if !ok {
		rec = model.HandleRecord{Phone: phone, CreatedAt: now}
	}
	rec.Handle = h
	rec.UpdatedAt = now
	s.handles[phone] = rec
	return nil
}

// BroadcastNumbers returns the broadcast list in insertion order.
func (s *MemStore) BroadcastNumbers(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.broadcast))
	copy(out, s.broadcast)
	return out
}

// AddBroadcastNumber appends a number to the broadcast list.
func (s *MemStore) AddBroadcastNumber(_ context.Context, phone string) error {
	if !model.IsE164(phone) {
		return ErrInvalidPhone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.broadcast {
		if p == phone {
			return ErrDuplicateItem
		}
	}
	s.broadcast = append(s.broadcast, phone)
	return nil
}

// RemoveBroadcastNumber removes a number from the broadcast list.
func (s *MemStore) RemoveBroadcastNumber(_ context.Context, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.broadcast {
		if p == phone {
			s.broadcast = append(s.broadcast[:i], s.broadcast[i+1:]...)
			return
		}
	}
}

// WeekCount returns the number of tracked weeks.
func (s *MemStore) WeekCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.weeks)
}
