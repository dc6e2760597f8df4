// Package payment provides the goalie payout transport.
package payment

import (
	"github.com/plutov/paypal/v4"

	"github.com/okian/crease/pkg/logger"
)

// Option applies a configuration option to the PayoutSender.
// Options may fail (e.g. client construction), so they return an error.
type Option func(*PayoutSender) error

// WithCredentials configures a real PayPal client. Blank client id or
// secret leaves the sender in dry-run mode. live selects the production
// API base instead of the sandbox.
func WithCredentials(clientID, secret string, live bool) Option {
	return func(p *PayoutSender) error {
		if clientID == "" || secret == "" {
			return nil
		}
		base := paypal.APIBaseSandBox
		if live {
			base = paypal.APIBaseLive
		}
		client, err := paypal.NewClient(clientID, secret, base)
		if err != nil {
			return err
		}
		p.client = client
		return nil
	}
}

// WithLogger sets a custom logger for the payout sender.
func WithLogger(log logger.Logger) Option {
	return func(p *PayoutSender) error {
		if log != nil {
			p.log = log
		}
		return nil
	}
}
