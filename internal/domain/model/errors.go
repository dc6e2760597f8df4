package model

import "errors"

// Sentinel kinds for signup validation errors.
var (
	ErrNameRequired = errors.New("name required")
	ErrInvalidPhone = errors.New("phone must be +E.164 like +15551234567 or blank")
)
