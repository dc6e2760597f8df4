// Package workflow drives the goalie confirmation state machine.
package workflow

import (
	"time"

	"github.com/okian/crease/internal/domain/analysis"
	"github.com/okian/crease/pkg/logger"
)

// Option applies a configuration option to the Workflow.
type Option func(*Workflow)

// WithPayoutAmount sets the fixed payout amount in USD.
func WithPayoutAmount(amount float64) Option {
	return func(w *Workflow) {
		if amount > 0 {
			w.amount = amount
		}
	}
}

// WithSendTimeout bounds each outbound SMS or payout call.
func WithSendTimeout(timeout time.Duration) Option {
	return func(w *Workflow) {
		if timeout > 0 {
			w.sendTimeout = timeout
		}
	}
}

// WithAnalyzer sets a custom message analyzer.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(w *Workflow) {
		if a != nil {
			w.analyzer = a
		}
	}
}

// WithLogger sets a custom logger for the workflow.
func WithLogger(log logger.Logger) Option {
	return func(w *Workflow) {
		if log != nil {
			w.log = log
		}
	}
}
