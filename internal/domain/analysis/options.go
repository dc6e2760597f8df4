// Package analysis scores free-text SMS replies for goalie confirmations.
package analysis

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithConfirmationThreshold sets the normalized score at or above which
// a message counts as a confirmation.
func WithConfirmationThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		if threshold > 0 && threshold <= 1 {
			a.confirmationThreshold = threshold
		}
	}
}
