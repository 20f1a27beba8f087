package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type quizRepository struct {
	db *sql.DB
}

func (r *quizRepository) CreateSession(ctx context.Context, session models.QuizSession) error {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("creating quiz session: user_id=%d, quiz_id=%s, day_no=%d", session.UserID, session.QuizID, session.DayNo)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_sessions (user_id, quiz_id, day_no, finished)
VALUES (?, ?, ?, 0)
`, session.UserID, session.QuizID, session.DayNo)
	if err != nil {
		log.Error("failed to create quiz session: %v", err)
	}
	return err
}

func (r *quizRepository) GetSession(ctx context.Context, userID int64, quizID string) (*models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")

	var s models.QuizSession
	var finished int
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, quiz_id, day_no, finished, created_at
FROM quiz_sessions
WHERE user_id = ? AND quiz_id = ?
`, userID, quizID).Scan(&s.ID, &s.UserID, &s.QuizID, &s.DayNo, &finished, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz session not found: quiz_id=%s", quizID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz session: %v", err)
		return nil, err
	}
	s.Finished = finished != 0
	return &s, nil
}

func (r *quizRepository) InsertAnswer(ctx context.Context, answer models.AnswerRecord) error {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("inserting answer: quiz_id=%s, word_id=%d, correct=%t", answer.QuizID, answer.WordID, answer.Correct)

	correct := 0
	if answer.Correct {
		correct = 1
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO answers (user_id, quiz_id, word_id, user_answer, correct)
VALUES (?, ?, ?, ?, ?)
`, answer.UserID, answer.QuizID, answer.WordID, answer.UserAnswer, correct)
	if err != nil {
		log.Error("failed to insert answer: %v", err)
	}
	return err
}

func (r *quizRepository) ListAnswers(ctx context.Context, userID int64, quizID string) ([]models.AnswerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, quiz_id, word_id, user_answer, correct
FROM answers
WHERE user_id = ? AND quiz_id = ?
ORDER BY id
`, userID, quizID)
	if err != nil {
		log.Error("failed to list answers: %v", err)
		return nil, err
	}
	defer rows.Close()

	var answers []models.AnswerRecord
	for rows.Next() {
		var a models.AnswerRecord
		var correct int
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.WordID, &a.UserAnswer, &correct); err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, err
		}
		a.Correct = correct != 0
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// Finish flips the session to finished and inserts the score in one
// transaction. The conditional update on finished=0 makes concurrent finish
// calls race-safe: exactly one caller writes the score.
func (r *quizRepository) Finish(ctx context.Context, userID int64, quizID string, score models.ScoreRecord) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("finishing quiz: quiz_id=%s, total=%d, correct=%d", quizID, score.Total, score.Correct)

	finished := false
	err := tx(ctx, r.db, log, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE quiz_sessions
SET finished = 1
WHERE user_id = ? AND quiz_id = ? AND finished = 0
`, userID, quizID)
		if err != nil {
			log.Error("failed to mark session finished: %v", err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			log.Debug("quiz already finished: quiz_id=%s", quizID)
			return nil
		}

		if _, err := t.ExecContext(ctx, `
INSERT INTO scores (user_id, quiz_id, day_no, total, correct, accuracy)
VALUES (?, ?, ?, ?, ?, ?)
`, score.UserID, score.QuizID, score.DayNo, score.Total, score.Correct, score.Accuracy); err != nil {
			log.Error("failed to insert score: %v", err)
			return err
		}
		finished = true
		return nil
	})
	return finished, err
}
