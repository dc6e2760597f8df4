// Package sms provides the outbound SMS transport.
package sms

import (
	"github.com/twilio/twilio-go"

	"github.com/okian/crease/pkg/logger"
)

// Option applies a configuration option to the Messenger.
type Option func(*Messenger)

// WithCredentials configures a real Twilio client. Blank account SID or
// auth token leaves the messenger in dry-run mode.
func WithCredentials(accountSID, authToken string) Option {
	return func(m *Messenger) {
		if accountSID == "" || authToken == "" {
			return
		}
		m.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
}

// WithFrom sets the sending phone number.
func WithFrom(from string) Option {
	return func(m *Messenger) {
		if from != "" {
			m.from = from
		}
	}
}

// WithLogger sets a custom logger for the messenger.
func WithLogger(log logger.Logger) Option {
	return func(m *Messenger) {
		if log != nil {
			m.log = log
		}
	}
}
