// Package smoketest exercises a running service end to end: it posts
// signups until the quota is reached, drives the goalie confirmation
// conversation through the SMS webhook, and verifies the week read
// model afterwards.
package smoketest

import "time"

// Config controls a smoke run.
type Config struct {
	BaseURL    string
	AdminToken string
	Signups    int
	Timeout    time.Duration
	Verbose    bool
}

// Stats tracks what the run did.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	SignupsSubmitted  int
	SignupsAccepted   int
	SignupsFailed     int
	WebhooksSubmitted int
	WebhooksDuplicate int
	WebhooksFailed    int
}
