// Package repository defines the persistence interface and its in-memory
// implementation.
package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithDefaultQuota sets the quota assigned to lazily created weeks.
func WithDefaultQuota(quota int) Option {
	return func(s *MemStore) {
		if quota > 0 {
			s.defaultQuota = quota
		}
	}
}

// WithClock sets the time source, used by tests to pin the ISO week.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}
