package payment

import "errors"

// Sentinel kinds for payout errors.
var (
	ErrNoHandle = errors.New("no payment handle provided")
)
