// Package handle extracts a payment handle (e.g. a Venmo username) from
// free-text SMS replies.
package handle

import (
	"regexp"
	"strings"
)

// Captured token length bounds.
const (
	minHandleLen = 3
	maxHandleLen = 30
)

// Extraction patterns, tried in priority order. Keywords match
// case-insensitively; the captured token preserves case.
var patterns = []*regexp.Regexp{ //nolint:gochecknoglobals // static rule table
	regexp.MustCompile(`@([\w\-.]{3,30})`),                        // bare @username
	regexp.MustCompile(`(?i)venmo[:\s]+@?([\w\-.]{3,30})`),        // "venmo: username" or "venmo @username"
	regexp.MustCompile(`(?i)username[:\s]+@?([\w\-.]{3,30})`),     // "username: @user"
	regexp.MustCompile(`(?i)my\s+venmo\s+is\s+@?([\w\-.]{3,30})`), // "my venmo is @user"
}

// Extract scans body for a payment handle. The second return value is
// false when no acceptable handle is present; that is not an error.
func Extract(body string) (string, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		token := m[1]
		if len(token) < minHandleLen || len(token) > maxHandleLen {
			continue
		}
		if strings.HasPrefix(token, ".") || strings.HasSuffix(token, ".") {
			continue
		}
		return token, true
	}
	return "", false
}
