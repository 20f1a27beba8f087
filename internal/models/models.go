package models

import (
	"strings"
	"time"
)

// User is an account identified by email. Password is stored as a bcrypt hash;
// OAuth-created accounts get a random unusable password.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// WordEntry is one record of the static word bank: a word plus one or more
// accepted translations.
type WordEntry struct {
	Word         string   `json:"word"`
	Translations []string `json:"translation"`
}

// VocabEntry is a word assigned to a user on a given learning day.
// DayNo is 1-based and gapless per user; at most one entry exists per
// (user, date). Entries are never mutated after creation.
type VocabEntry struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"-"`
	DayNo        int      `json:"day_no"`
	Date         string   `json:"date"` // YYYY-MM-DD in the configured zone
	Word         string   `json:"word"`
	Translations []string `json:"translation"`
}

// QuizSession is a bounded review over the user's vocabulary up to DayNo.
// The only state transition is finished: false -> true.
type QuizSession struct {
	ID        int64
	UserID    int64
	QuizID    string
	DayNo     int
	Finished  bool
	CreatedAt time.Time
}

// AnswerRecord is one submitted answer within a quiz. Append-only; repeated
// submissions for the same word accumulate separate records.
type AnswerRecord struct {
	ID         int64
	UserID     int64
	QuizID     string
	WordID     int64
	UserAnswer string
	Correct    bool
}

// ScoreRecord is the aggregate outcome of a finished quiz. QuizID ties the
// score back to its session so repeated finish calls can return the
// originally persisted totals.
type ScoreRecord struct {
	ID       int64   `json:"-"`
	UserID   int64   `json:"-"`
	QuizID   string  `json:"-"`
	DayNo    int     `json:"day_no"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// QuizItem is the answer-free view of a vocab entry handed out when a quiz
// starts. Translations are deliberately withheld.
type QuizItem struct {
	ID    int64  `json:"id"`
	DayNo int    `json:"day_no"`
	Word  string `json:"word"`
}

// QuizStart is the result of starting a quiz.
type QuizStart struct {
	QuizID string     `json:"quiz_id"`
	DayNo  int        `json:"day_no"`
	Items  []QuizItem `json:"items"`
}

// AnswerResult reports correctness of a single submission. Gold carries the
// accepted translation(s) only when the answer was wrong: a single string
// when there is one alternative, otherwise the full list.
type AnswerResult struct {
	Correct bool `json:"correct"`
	Gold    any  `json:"gold"`
}

// QuizResult is the outcome of finishing a quiz. AlreadyFinished marks a
// repeat call; the totals are then the originally stored ones.
type QuizResult struct {
	AlreadyFinished bool    `json:"already_finished,omitempty"`
	Total           int     `json:"total"`
	Correct         int     `json:"correct"`
	Accuracy        float64 `json:"accuracy"`
}

// LastScore is the most recent scored day shown in stats.
type LastScore struct {
	DayNo    int     `json:"day_no"`
	Accuracy float64 `json:"accuracy"`
}

// Stats summarizes a user's progress.
type Stats struct {
	TotalWords int        `json:"total_words"`
	Streak     int        `json:"streak"`
	Last       *LastScore `json:"last"`
}

// translationSep joins translation alternatives in storage, matching the
// word-bank wire format.
const translationSep = "||"

// JoinTranslations flattens alternatives into the storage representation.
func JoinTranslations(alts []string) string {
	return strings.Join(alts, translationSep)
}

// SplitTranslations expands the storage representation back into a list of
// trimmed, non-empty alternatives.
func SplitTranslations(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, translationSep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
