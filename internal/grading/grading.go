// Package grading holds the pure answer-matching rules: how a free-text
// answer is normalized and compared against the accepted translations, and
// how a finished quiz is scored.
package grading

import (
	"math"
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile("[\"'`~!@#$%^&*()_+\\-=\\[\\]{};:,.?/\\\\|<>]")
)

// Normalize prepares a string for comparison: trim, lowercase, collapse
// whitespace runs to a single space, strip the fixed punctuation set.
// Punctuation is stripped after whitespace collapsing, so both sides of a
// comparison must go through Normalize to match.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, "")
	return s
}

// IsCorrect reports whether the answer matches any accepted translation
// after normalization.
func IsCorrect(answer string, golds []string) bool {
	norm := Normalize(answer)
	for _, gold := range golds {
		if norm == Normalize(gold) {
			return true
		}
	}
	return false
}

// Accuracy returns correct/total as a percentage rounded to two decimals,
// or 0.0 when total is zero.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
