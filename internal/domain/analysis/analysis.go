// Package analysis scores free-text SMS replies against weighted regex
// categories to decide whether a message confirms that a goalie has been
// secured. Analysis is a pure function of the message text and the static
// rule table, so identical input always yields an identical Result.
package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Level is a discrete confidence band derived from the normalized score.
type Level string

// Confidence levels, from most to least certain.
const (
	VeryHigh Level = "very_high"
	High     Level = "high"
	Medium   Level = "medium"
	Low      Level = "low"
	VeryLow  Level = "very_low"
)

// Sentiment is the dominant sentiment class of a message.
type Sentiment string

// Sentiment classes.
const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Score band thresholds and adjustments.
const (
	veryHighThreshold = 0.9
	highThreshold     = 0.7
	mediumThreshold   = 0.5
	lowThreshold      = 0.3

	defaultConfirmationThreshold = 0.5

	contextBonus        = 0.1
	sentimentAdjustment = 0.2
)

// Result of analyzing one message.
type Result struct {
	IsConfirmation  bool
	Confidence      Level
	ConfidenceScore float64 // normalized to [0,1]
	MatchedPatterns []string
	Sentiment       Sentiment
	ContextClues    []string // deduplicated, first-seen order
	Reasoning       string
}

// HighConfidence reports whether the result sits in the top two bands.
func (r Result) HighConfidence() bool {
	return r.Confidence == High || r.Confidence == VeryHigh
}

// category is one weighted group of confirmation/negation patterns.
// Categories are evaluated in registration order to keep matched-pattern
// label ordering reproducible.
type category struct {
	name     string
	weight   float64
	patterns []*regexp.Regexp
}

// contextGroup is a named group of context-clue patterns. Each group with
// at least one match contributes a single fixed bonus.
type contextGroup struct {
	name     string
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Weighted confirmation and negation categories, evaluated in order.
var scoreCategories = []category{ //nolint:gochecknoglobals // static rule table
	{
		name:   "explicit",
		weight: 1.0,
		patterns: compileAll(
			`\b(got|have|secured|found|confirmed|booked)\s+(a\s+|the\s+)?goalie\b`,
			`\bgoalie\s+(is\s+)?(secured|confirmed|booked|set|ready|found)\b`,
			`\b(yes|yep|yeah|confirmed|done|secured)\b.*\bgoalie\b`,
			`\bgoalie\s+(confirmed|secured|booked|locked\s+in)\b`,
		),
	},
	{
		name:   "strong_positive",
		weight: 0.9,
		patterns: compileAll(
			`\b(all\s+set|we're\s+good|good\s+to\s+go|we're\s+covered)\b.*\bgoalie\b`,
			`\bgoalie.*\b(confirmed|secured|set|ready|good|covered|sorted)\b`,
			`\b(sorted|covered|handled)\b.*\bgoalie\b`,
			`\bgoalie\s+(situation|issue|problem)\s+(is\s+)?(resolved|handled|sorted|fixed)\b`,
		),
	},
	{
		name:   "moderate_positive",
		weight: 0.7,
		patterns: compileAll(
			`\b(think|believe|pretty\s+sure)\s+(i|we)\s+(got|have|found)\s+(a\s+)?goalie\b`,
			`\bgoalie\s+(should\s+be|might\s+be|probably)\s+(ready|set|confirmed)\b`,
			`\b(working\s+on|trying\s+to\s+get|looking\s+for)\s+(a\s+)?goalie\b.*\b(almost|nearly|close)\b`,
		),
	},
	{
		name:   "weak_positive",
		weight: 0.5,
		patterns: compileAll(
			`\bgoalie\b.*\b(maybe|possibly|might|could)\b`,
			`\b(hope|hoping|fingers\s+crossed)\b.*\bgoalie\b`,
		),
	},
	{
		name:   "negative_explicit",
		weight: -1.0,
		patterns: compileAll(
			`\b(no|don't\s+have|can't\s+find|couldn't\s+get)\s+(a\s+)?goalie\b`,
			`\bgoalie\s+(cancelled|bailed|can't\s+make\s+it|unavailable)\b`,
			`\b(still\s+need|looking\s+for|searching\s+for)\s+(a\s+)?goalie\b`,
		),
	},
	{
		name:   "negative_uncertainty",
		weight: -0.5,
		patterns: compileAll(
			`\b(not\s+sure|uncertain|don't\s+know)\b.*\bgoalie\b`,
			`\bgoalie\b.*\b(questionable|iffy|unsure)\b`,
		),
	},
}

// Context clues that help interpretation. Each matching group adds a
// fixed small bonus, independent of sentiment.
var contextGroups = []contextGroup{ //nolint:gochecknoglobals // static rule table
	{
		name: "urgency",
		patterns: compileAll(
			`\b(urgent|asap|quickly|soon|tonight|today)\b`,
			`\b(need\s+to\s+know|let\s+me\s+know|update)\b`,
		),
	},
	{
		name: "time_references",
		patterns: compileAll(
			`\b(tonight|today|tomorrow|this\s+week|next\s+week)\b`,
			`\b(\d{1,2}:\d{2}|am|pm)\b`,
		),
	},
	{
		name: "emotional_indicators",
		patterns: compileAll(
			`\b(excited|great|awesome|perfect|excellent)\b`,
			`\b(worried|concerned|stressed|problem)\b`,
		),
	},
}

// Sentiment indicators. Match counts per class decide the dominant
// sentiment; ties resolve to neutral.
var sentimentPatterns = map[Sentiment][]*regexp.Regexp{ //nolint:gochecknoglobals // static rule table
	Positive: compileAll(
		`\b(great|awesome|perfect|excellent|fantastic|good|yes|yep|yeah)\b`,
		`\b(thanks|thank\s+you|appreciate)\b`,
		`!{1,3}`,
	),
	Negative: compileAll(
		`\b(no|nope|can't|couldn't|won't|wouldn't|sorry|unfortunately)\b`,
		`\b(problem|issue|trouble|difficult|hard)\b`,
	),
	Neutral: compileAll(
		`\b(maybe|perhaps|possibly|might|could|ok|okay)\b`,
	),
}

// Analyzer classifies messages with the static rule table. The zero
// threshold is replaced with the default; use options to tune it.
type Analyzer struct {
	confirmationThreshold float64
}

// New creates an Analyzer with configuration options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		confirmationThreshold: defaultConfirmationThreshold,
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze scores a message and maps the raw score to a confidence band.
func (a *Analyzer) Analyze(body string) Result {
	message := strings.ToLower(strings.TrimSpace(body))

	totalScore := 0.0
	var matched []string

	// Weighted categories, in registration order. A category contributes
	// its weight once per matching pattern.
	for _, cat := range scoreCategories {
		for _, p := range cat.patterns {
			if p.MatchString(message) {
				totalScore += cat.weight
				matched = append(matched, fmt.Sprintf("%s: %s", cat.name, p.String()))
			}
		}
	}

	// Context groups: one fixed bonus per group with any match.
	var clues []string
	for _, g := range contextGroups {
		for _, p := range g.patterns {
			if p.MatchString(message) {
				clues = append(clues, g.name)
				totalScore += contextBonus
				break
			}
		}
	}

	sentiment := analyzeSentiment(message)
	switch sentiment {
	case Positive:
		totalScore += sentimentAdjustment
	case Negative:
		totalScore -= sentimentAdjustment
	case Neutral:
		// no adjustment
	}

	// Normalize the signed score to [0,1].
	confidenceScore := (totalScore + 1.0) / 2.0
	if confidenceScore < 0 {
		confidenceScore = 0
	}
	if confidenceScore > 1 {
		confidenceScore = 1
	}

	level := levelFor(confidenceScore)

	// A message matching no scoring category normalizes to the 0.5
	// baseline; without this guard it would read as a Medium
	// confirmation and shadow handle extraction downstream.
	isConfirmation := confidenceScore >= a.confirmationThreshold && len(matched) > 0

	return Result{
		IsConfirmation:  isConfirmation,
		Confidence:      level,
		ConfidenceScore: confidenceScore,
		MatchedPatterns: matched,
		Sentiment:       sentiment,
		ContextClues:    clues,
		Reasoning:       reasoning(totalScore, matched, clues, sentiment, isConfirmation),
	}
}

// levelFor discretizes a normalized score into a confidence band.
func levelFor(score float64) Level {
	switch {
	case score >= veryHighThreshold:
		return VeryHigh
	case score >= highThreshold:
		return High
	case score >= mediumThreshold:
		return Medium
	case score >= lowThreshold:
		return Low
	default:
		return VeryLow
	}
}

// analyzeSentiment assigns the class with the strictly highest match
// count over the whole message; ties resolve to neutral.
func analyzeSentiment(message string) Sentiment {
	counts := map[Sentiment]int{}
	for class, patterns := range sentimentPatterns {
		for _, p := range patterns {
			counts[class] += len(p.FindAllString(message, -1))
		}
	}

	switch {
	case counts[Positive] > counts[Negative] && counts[Positive] > counts[Neutral]:
		return Positive
	case counts[Negative] > counts[Positive] && counts[Negative] > counts[Neutral]:
		return Negative
	default:
		return Neutral
	}
}

// reasoning builds the human-readable rationale trace for a decision.
func reasoning(score float64, matched, clues []string, sentiment Sentiment, isConfirmation bool) string {
	var parts []string

	if isConfirmation {
		parts = append(parts, fmt.Sprintf("CONFIRMED goalie (score: %.2f)", score))
	} else {
		parts = append(parts, fmt.Sprintf("NOT confirmed (score: %.2f)", score))
	}

	if len(matched) > 0 {
		parts = append(parts, fmt.Sprintf("Matched %d pattern(s)", len(matched)))
	}

	if sentiment != Neutral {
		parts = append(parts, fmt.Sprintf("%s sentiment detected", sentiment))
	}

	if len(clues) > 0 {
		parts = append(parts, "Context: "+strings.Join(dedupe(clues), ", "))
	}

	return strings.Join(parts, " | ")
}

// dedupe removes repeated entries, keeping first-seen order so the
// reasoning string stays deterministic.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
