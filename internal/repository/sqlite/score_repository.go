package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type scoreRepository struct {
	db *sql.DB
}

func (r *scoreRepository) GetByQuiz(ctx context.Context, userID int64, quizID string) (*models.ScoreRecord, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID, "quiz_id": quizID}, "")
}

func (r *scoreRepository) Latest(ctx context.Context, userID int64) (*models.ScoreRecord, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID}, "day_no DESC")
}

func (r *scoreRepository) getOne(ctx context.Context, where squirrel.Eq, orderBy string) (*models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")

	q := sqlBuilder.
		Select("id", "user_id", "quiz_id", "day_no", "total", "correct", "accuracy").
		From("scores").
		Where(where).
		Limit(1)
	if orderBy != "" {
		q = q.OrderBy(orderBy)
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var s models.ScoreRecord
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &s.QuizID, &s.DayNo, &s.Total, &s.Correct, &s.Accuracy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get score: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *scoreRepository) HasDay(ctx context.Context, userID int64, dayNo int) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")

	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM scores WHERE user_id = ? AND day_no = ? LIMIT 1
`, userID, dayNo).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error("failed to check score day: %v", err)
		return false, err
	}
	return true, nil
}

func (r *scoreRepository) List(ctx context.Context, userID int64) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, quiz_id, day_no, total, correct, accuracy
FROM scores
WHERE user_id = ?
ORDER BY day_no
`, userID)
	if err != nil {
		log.Error("failed to list scores: %v", err)
		return nil, err
	}
	defer rows.Close()

	var scores []models.ScoreRecord
	for rows.Next() {
		var s models.ScoreRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.QuizID, &s.DayNo, &s.Total, &s.Correct, &s.Accuracy); err != nil {
			log.Error("failed to scan score row: %v", err)
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
