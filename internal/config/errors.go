package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr           = errors.New("addr must not be empty")
	ErrInvalidQuota        = errors.New("default_quota must be at least 1")
	ErrInvalidPayoutAmount = errors.New("payout_amount must be positive")
)
