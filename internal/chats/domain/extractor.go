package domain

import (
	"regexp"
	"strings"
)

// Extractor scans message text against the categorized rule table and
// produces an EvidenceSet. It is a pure function of its input: no I/O, no
// shared state. Message order does not matter; recency is taken from the
// message timestamps, not the slice position.
type Extractor struct {
	rules []Rule
}

// NewExtractor builds an extractor over the given rule table.
func NewExtractor(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

const sampleLineMax = 200

// Extract evaluates every message against every rule. A category is matched
// once at least MinHints distinct patterns (minimum one) have hit a message
// of the required author role, with no exclusion pattern firing on the same
// text. LastMatchedAt is the most recent matching message's timestamp.
func (e *Extractor) Extract(messages []Message) EvidenceSet {
	set := make(EvidenceSet, len(e.rules))

	for _, rule := range e.rules {
		set[rule.Category] = e.extractCategory(rule, messages)
	}

	return set
}

func (e *Extractor) extractCategory(rule Rule, messages []Message) Evidence {
	minHints := rule.MinHints
	if minHints < 1 {
		minHints = 1
	}

	var ev Evidence
	hitPatterns := make(map[int]struct{})

	for _, msg := range messages {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		if rule.RequiredRole != "" && msg.AuthorRole != rule.RequiredRole {
			continue
		}
		if matchesAny(rule.ExcludePatterns, text) {
			continue
		}

		for i, pattern := range rule.Patterns {
			if !pattern.MatchString(text) {
				continue
			}
			hitPatterns[i] = struct{}{}
			if msg.Timestamp.After(ev.LastMatchedAt) {
				ev.LastMatchedAt = msg.Timestamp
				ev.SampleLine = truncate(text, sampleLineMax)
			}
		}
	}

	ev.Matched = len(hitPatterns) >= minHints
	if !ev.Matched {
		return Evidence{}
	}
	return ev
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
