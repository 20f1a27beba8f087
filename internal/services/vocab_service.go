package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"vocapsule/internal/errors"
	"vocapsule/internal/logger"
	"vocapsule/internal/models"
	"vocapsule/internal/repository"
	"vocapsule/internal/wordbank"
)

const dateLayout = "2006-01-02"

// VocabService handles daily word assignment and vocabulary access
type VocabService interface {
	// AssignToday returns the user's word for the current calendar day,
	// creating it from the word bank if this is the first call today.
	// The second return value is true when the entry already existed.
	AssignToday(ctx context.Context, userID int64) (*models.VocabEntry, bool, error)
	List(ctx context.Context, userID int64) ([]models.VocabEntry, error)
	Recent(ctx context.Context, userID int64, limit int) ([]models.VocabEntry, error)
	Export(ctx context.Context, userID int64) (string, error)
	Reset(ctx context.Context, userID int64) error
}

type vocabService struct {
	store repository.Store
	bank  *wordbank.Loader
	locks *userLocks
	loc   *time.Location
	now   func() time.Time
}

// VocabOption configures a VocabService.
type VocabOption func(*vocabService)

// WithClock overrides the time source; tests use this to pin "today".
func WithClock(now func() time.Time) VocabOption {
	return func(s *vocabService) {
		s.now = now
	}
}

// NewVocabService creates a new VocabService. "Today" is always computed in
// loc, never in the server's local zone.
func NewVocabService(store repository.Store, bank *wordbank.Loader, loc *time.Location, opts ...VocabOption) VocabService {
	s := &vocabService{
		store: store,
		bank:  bank,
		locks: newUserLocks(),
		loc:   loc,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *vocabService) today() string {
	return s.now().In(s.loc).Format(dateLayout)
}

func (s *vocabService) AssignToday(ctx context.Context, userID int64) (*models.VocabEntry, bool, error) {
	log := logger.FromContext(ctx)

	// Serialize the check-then-create window per user so two concurrent
	// calls cannot both pass the "no entry today" check.
	unlock := s.locks.Lock(userID)
	defer unlock()

	today := s.today()
	log.Debug("assigning today's word: user_id=%d, date=%s", userID, today)

	existing, err := s.store.Vocab().GetByDate(ctx, userID, today)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	if existing != nil {
		log.Debug("entry already assigned: day_no=%d, word=%s", existing.DayNo, existing.Word)
		return existing, true, nil
	}

	history, err := s.store.Vocab().List(ctx, userID)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	used := make(map[string]bool, len(history))
	for _, e := range history {
		used[strings.ToLower(e.Word)] = true
	}

	// Case-insensitive word match guards against bank entries changing case.
	var pool []models.WordEntry
	for _, w := range s.bank.Load() {
		if !used[strings.ToLower(w.Word)] {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		log.Warn("word bank exhausted for user_id=%d", userID)
		return nil, false, errors.NewNoWordAvailableError()
	}
	pick := pool[rand.IntN(len(pool))]

	maxDay, err := s.store.Vocab().MaxDayNo(ctx, userID)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}

	entry, err := s.store.Vocab().Insert(ctx, models.VocabEntry{
		UserID:       userID,
		DayNo:        maxDay + 1,
		Date:         today,
		Word:         pick.Word,
		Translations: pick.Translations,
	})
	if err != nil {
		log.Error("failed to persist vocab entry: %v", err)
		return nil, false, errors.NewInternalError(err)
	}

	log.Info("assigned new word: user_id=%d, day_no=%d, word=%s", userID, entry.DayNo, entry.Word)
	return entry, false, nil
}

func (s *vocabService) List(ctx context.Context, userID int64) ([]models.VocabEntry, error) {
	entries, err := s.store.Vocab().List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *vocabService) Recent(ctx context.Context, userID int64, limit int) ([]models.VocabEntry, error) {
	entries, err := s.store.Vocab().ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

// Export renders the user's history as a markdown table, one row per
// learning day with the day's best-known accuracy (or "-" if never quizzed).
func (s *vocabService) Export(ctx context.Context, userID int64) (string, error) {
	entries, err := s.store.Vocab().List(ctx, userID)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	scores, err := s.store.Scores().List(ctx, userID)
	if err != nil {
		return "", errors.NewInternalError(err)
	}

	scoreByDay := make(map[int]models.ScoreRecord, len(scores))
	for _, sc := range scores {
		scoreByDay[sc.DayNo] = sc
	}

	lines := []string{
		"# Vocab Time Capsule — Export\n",
		"| Day | Date | Word | Translation | Accuracy |",
		"|---:|:---:|---|---|---:|",
	}
	for _, e := range entries {
		acc := "-"
		if sc, ok := scoreByDay[e.DayNo]; ok {
			acc = fmt.Sprintf("%g%%", sc.Accuracy)
		}
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %s |",
			e.DayNo, e.Date, e.Word, models.JoinTranslations(e.Translations), acc))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *vocabService) Reset(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Info("resetting all data: user_id=%d", userID)

	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.store.ResetUser(ctx, userID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
