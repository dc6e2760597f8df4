package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoGoaliePhone  = errors.New("no goalie phone configured")
	ErrNoHandleOnFile = errors.New("no payment handle on file for goalie")
)
