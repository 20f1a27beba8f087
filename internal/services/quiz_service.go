package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand/v2"

	"vocapsule/internal/errors"
	"vocapsule/internal/grading"
	"vocapsule/internal/logger"
	"vocapsule/internal/models"
	"vocapsule/internal/repository"
)

// QuizService handles quiz sessions: creation, answer scoring and finishing
type QuizService interface {
	Start(ctx context.Context, userID int64, shuffle bool, limit int) (*models.QuizStart, error)
	SubmitAnswer(ctx context.Context, userID int64, quizID string, wordID int64, answer string) (*models.AnswerResult, error)
	Finish(ctx context.Context, userID int64, quizID string) (*models.QuizResult, error)
}

type quizService struct {
	store repository.Store
	locks *userLocks
}

// NewQuizService creates a new QuizService
func NewQuizService(store repository.Store) QuizService {
	return &quizService{store: store, locks: newUserLocks()}
}

// newQuizID returns 16 bytes from a CSPRNG, hex encoded. Quiz ids must not
// be guessable since knowing one lets a caller append answers to it.
func newQuizID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *quizService) Start(ctx context.Context, userID int64, shuffle bool, limit int) (*models.QuizStart, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: user_id=%d, shuffle=%t, limit=%d", userID, shuffle, limit)

	dayNo, err := s.store.Vocab().MaxDayNo(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if dayNo == 0 {
		return nil, errors.NewNoVocabYetError()
	}

	// Snapshot: the quiz covers every entry up to and including dayNo.
	entries, err := s.store.Vocab().List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	var candidates []models.VocabEntry
	for _, e := range entries {
		if e.DayNo <= dayNo {
			candidates = append(candidates, e)
		}
	}

	quizID := newQuizID()
	if err := s.store.Quizzes().CreateSession(ctx, models.QuizSession{
		UserID: userID,
		QuizID: quizID,
		DayNo:  dayNo,
	}); err != nil {
		log.Error("failed to create quiz session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if shuffle {
		mrand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	items := make([]models.QuizItem, 0, len(candidates))
	for _, e := range candidates {
		// Translations withheld: the payload must not leak answers.
		items = append(items, models.QuizItem{ID: e.ID, DayNo: e.DayNo, Word: e.Word})
	}

	log.Info("quiz started: user_id=%d, quiz_id=%s, items=%d", userID, quizID, len(items))
	return &models.QuizStart{QuizID: quizID, DayNo: dayNo, Items: items}, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, userID int64, quizID string, wordID int64, answer string) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx)

	entry, err := s.store.Vocab().Get(ctx, wordID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewWordNotFoundError(wordID)
	}

	correct := grading.IsCorrect(answer, entry.Translations)

	// The answer log is append-only: retries for the same word accumulate.
	if err := s.store.Quizzes().InsertAnswer(ctx, models.AnswerRecord{
		UserID:     userID,
		QuizID:     quizID,
		WordID:     wordID,
		UserAnswer: answer,
		Correct:    correct,
	}); err != nil {
		log.Error("failed to record answer: %v", err)
		return nil, errors.NewInternalError(err)
	}

	result := &models.AnswerResult{Correct: correct}
	if !correct {
		if len(entry.Translations) == 1 {
			result.Gold = entry.Translations[0]
		} else {
			result.Gold = entry.Translations
		}
	}
	log.Debug("answer submitted: quiz_id=%s, word_id=%d, correct=%t", quizID, wordID, correct)
	return result, nil
}

func (s *quizService) Finish(ctx context.Context, userID int64, quizID string) (*models.QuizResult, error) {
	log := logger.FromContext(ctx)

	// Serialize per user so concurrent finish calls cannot both aggregate.
	unlock := s.locks.Lock(userID)
	defer unlock()

	session, err := s.store.Quizzes().GetSession(ctx, userID, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewQuizNotFoundError(quizID)
	}
	if session.Finished {
		return s.storedResult(ctx, userID, quizID)
	}

	answers, err := s.store.Quizzes().ListAnswers(ctx, userID, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	total := len(answers)
	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}
	accuracy := grading.Accuracy(correct, total)

	finished, err := s.store.Quizzes().Finish(ctx, userID, quizID, models.ScoreRecord{
		UserID:   userID,
		QuizID:   quizID,
		DayNo:    session.DayNo,
		Total:    total,
		Correct:  correct,
		Accuracy: accuracy,
	})
	if err != nil {
		log.Error("failed to finish quiz: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !finished {
		// Lost the race against another finish call; report its outcome.
		return s.storedResult(ctx, userID, quizID)
	}

	log.Info("quiz finished: user_id=%d, quiz_id=%s, total=%d, correct=%d, accuracy=%.2f",
		userID, quizID, total, correct, accuracy)
	return &models.QuizResult{Total: total, Correct: correct, Accuracy: accuracy}, nil
}

// storedResult re-attaches the originally persisted totals when a quiz is
// finished more than once.
func (s *quizService) storedResult(ctx context.Context, userID int64, quizID string) (*models.QuizResult, error) {
	score, err := s.store.Scores().GetByQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	result := &models.QuizResult{AlreadyFinished: true}
	if score != nil {
		result.Total = score.Total
		result.Correct = score.Correct
		result.Accuracy = score.Accuracy
	}
	return result, nil
}
