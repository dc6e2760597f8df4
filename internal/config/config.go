// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultQuota is the signup quota assigned to lazily created weeks.
	DefaultQuota int `koanf:"default_quota"`

	// PayoutAmount is the fixed USD amount paid to the goalie contact.
	PayoutAmount float64 `koanf:"payout_amount"`

	// AdminToken guards the admin endpoints. Empty disables admin access.
	AdminToken string `koanf:"admin_token"`

	// MessageQueueSize bounds the in-memory inbound message queue.
	MessageQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of message-processing workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the message-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// SendTimeoutMS bounds each outbound SMS or payout call.
	SendTimeoutMS int `koanf:"send_timeout_ms"`

	// Twilio credentials. All three empty means SMS dry-run mode.
	TwilioAccountSID string `koanf:"twilio_account_sid"`
	TwilioAuthToken  string `koanf:"twilio_auth_token"`
	TwilioFrom       string `koanf:"twilio_from"`

	// PayPal credentials. Both empty means payout dry-run mode.
	PayPalClientID string `koanf:"paypal_client_id"`
	PayPalSecret   string `koanf:"paypal_secret"`

	// PayPalLive switches from the sandbox to the live API base.
	PayPalLive bool `koanf:"paypal_live"`
}

// Default configuration values.
const (
	defaultQuota        = 16
	defaultPayoutAmount = 10.00
	defaultQueueSize    = 10_000
	defaultDedupeSize   = 50_000
	defaultSendTimeout  = 10_000
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		DefaultQuota:     defaultQuota,
		PayoutAmount:     defaultPayoutAmount,
		MessageQueueSize: defaultQueueSize,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       defaultDedupeSize,
		SendTimeoutMS:    defaultSendTimeout,
	}
}
