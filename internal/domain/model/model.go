// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// E.164-like phone shape bounds: leading '+', 8-16 total characters.
const (
	minPhoneLen = 8
	maxPhoneLen = 16
)

// Week represents one calendar week of signups. Identity is the ISO
// (year, week) pair; weeks are created lazily on first access and never
// deleted.
type Week struct {
	ID             int64
	ISOYear        int
	ISOWeek        int
	Quota          int
	GoalieNotified bool
	Signups        []Signup // insertion-ordered by creation time
}

// Count returns the current number of signups.
func (w *Week) Count() int {
	return len(w.Signups)
}

// QuotaReached reports whether the signup count has met the quota.
func (w *Week) QuotaReached() bool {
	return len(w.Signups) >= w.Quota
}

// Signup is a single roster entry. Immutable once created.
type Signup struct {
	Name      string
	Phone     string // optional, E.164-like when present
	CreatedAt time.Time
}

// HandleRecord maps a phone number to a previously supplied payment
// handle. At most one record per phone number; latest write wins.
type HandleRecord struct {
	Phone     string
	Handle    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InboundMessage is a received SMS awaiting interpretation.
type InboundMessage struct {
	MessageID string // transport message id, used for webhook dedupe
	From      string
	Body      string
	Received  time.Time
}

// IsE164 reports whether phone satisfies the E.164-like shape:
// leading '+', 8-16 total characters, remaining characters digits.
func IsE164(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) < minPhoneLen || len(phone) > maxPhoneLen {
		return false
	}
	if phone[0] != '+' {
		return false
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NewSignup validates and normalizes a signup request. The phone is
// optional: blank becomes empty, anything else must be E.164-like.
func NewSignup(name, phone string, now time.Time) (Signup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Signup{}, ErrNameRequired
	}
	phone = strings.TrimSpace(phone)
	if phone != "" && !IsE164(phone) {
		return Signup{}, ErrInvalidPhone
	}
	return Signup{Name: name, Phone: phone, CreatedAt: now}, nil
}
