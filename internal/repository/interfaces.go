package repository

import (
	"context"

	"vocapsule/internal/models"
)

// Lookup methods return (nil, nil) when no row matches; callers translate
// that into the appropriate domain error.

// UserRepository handles account data access
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

// VocabRepository handles per-user vocabulary data access
type VocabRepository interface {
	Insert(ctx context.Context, entry models.VocabEntry) (*models.VocabEntry, error)
	Get(ctx context.Context, id, userID int64) (*models.VocabEntry, error)
	GetByDate(ctx context.Context, userID int64, date string) (*models.VocabEntry, error)
	// List returns all entries for the user ordered by day_no ascending.
	List(ctx context.Context, userID int64) ([]models.VocabEntry, error)
	// ListRecent returns up to limit entries ordered by day_no descending.
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.VocabEntry, error)
	MaxDayNo(ctx context.Context, userID int64) (int, error)
}

// QuizRepository handles quiz sessions and their answer log
type QuizRepository interface {
	CreateSession(ctx context.Context, session models.QuizSession) error
	GetSession(ctx context.Context, userID int64, quizID string) (*models.QuizSession, error)
	InsertAnswer(ctx context.Context, answer models.AnswerRecord) error
	ListAnswers(ctx context.Context, userID int64, quizID string) ([]models.AnswerRecord, error)
	// Finish atomically marks the session finished and persists its score.
	// It returns false without writing anything when the session was already
	// finished, so concurrent finish calls cannot double-count a score.
	Finish(ctx context.Context, userID int64, quizID string, score models.ScoreRecord) (bool, error)
}

// ScoreRepository handles per-day quiz score data access
type ScoreRepository interface {
	GetByQuiz(ctx context.Context, userID int64, quizID string) (*models.ScoreRecord, error)
	HasDay(ctx context.Context, userID int64, dayNo int) (bool, error)
	Latest(ctx context.Context, userID int64) (*models.ScoreRecord, error)
	// List returns all scores for the user ordered by day_no ascending.
	List(ctx context.Context, userID int64) ([]models.ScoreRecord, error)
}

// Store aggregates the entity repositories over one storage backend. The
// backend is selected once at startup.
type Store interface {
	Users() UserRepository
	Vocab() VocabRepository
	Quizzes() QuizRepository
	Scores() ScoreRepository
	// ResetUser removes every row owned by the user across all entity types.
	ResetUser(ctx context.Context, userID int64) error
	Close() error
}
