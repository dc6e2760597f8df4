// Package worker drains the inbound message queue into the confirmation
// workflow.
package worker

import (
	"github.com/okian/crease/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}
