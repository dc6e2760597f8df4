package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrWeekNotFound  = errors.New("week not found")
	ErrInvalidQuota  = errors.New("quota must be at least 1")
	ErrEmptyHandle   = errors.New("handle must not be empty")
	ErrInvalidPhone  = errors.New("phone must be E.164-like")
	ErrDuplicateItem = errors.New("broadcast number already present")
)
