package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vocapsule/internal/grading"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trims and lowercases",
			in:   "  Apple  ",
			want: "apple",
		},
		{
			name: "collapses inner whitespace",
			in:   "time \t capsule",
			want: "time capsule",
		},
		{
			name: "strips punctuation",
			in:   "it's a (test)!",
			want: "its a test",
		},
		{
			name: "mixed",
			in:   "  To   Look\tUP!  ",
			want: "to look up",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "punctuation only",
			in:   "?!.,",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.Normalize(tt.in))
		})
	}
}

func TestIsCorrect_ExactGold(t *testing.T) {
	assert.True(t, grading.IsCorrect("apple", []string{"apple"}))
}

func TestIsCorrect_NormalizationEquivalents(t *testing.T) {
	golds := []string{"to give up"}

	assert.True(t, grading.IsCorrect("  To  Give   Up ", golds))
	assert.True(t, grading.IsCorrect("to give up!", golds))
	assert.True(t, grading.IsCorrect("TO GIVE UP.", golds))
}

func TestIsCorrect_AnyAlternativeMatches(t *testing.T) {
	golds := []string{"quit", "give up", "abandon"}

	assert.True(t, grading.IsCorrect("Abandon", golds))
	assert.True(t, grading.IsCorrect("give  up", golds))
	assert.False(t, grading.IsCorrect("surrender", golds))
}

func TestIsCorrect_NoGolds(t *testing.T) {
	assert.False(t, grading.IsCorrect("anything", nil))
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{name: "three of four", correct: 3, total: 4, want: 75.0},
		{name: "zero answers", correct: 0, total: 0, want: 0.0},
		{name: "all correct", correct: 5, total: 5, want: 100.0},
		{name: "rounds to two decimals", correct: 1, total: 3, want: 33.33},
		{name: "rounds up", correct: 2, total: 3, want: 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.Accuracy(tt.correct, tt.total))
		})
	}
}
