package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type vocabRepository struct {
	db *sql.DB
}

func (r *vocabRepository) Insert(ctx context.Context, entry models.VocabEntry) (*models.VocabEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("vocab_repo")
	log.Debug("inserting vocab entry: user_id=%d, day_no=%d, word=%s", entry.UserID, entry.DayNo, entry.Word)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO vocab (user_id, day_no, date, word, translation)
VALUES (?, ?, ?, ?, ?)
`, entry.UserID, entry.DayNo, entry.Date, entry.Word, models.JoinTranslations(entry.Translations))
	if err != nil {
		log.Error("failed to insert vocab entry: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get vocab id: %v", err)
		return nil, err
	}
	entry.ID = id
	return &entry, nil
}

func (r *vocabRepository) Get(ctx context.Context, id, userID int64) (*models.VocabEntry, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "user_id": userID})
}

func (r *vocabRepository) GetByDate(ctx context.Context, userID int64, date string) (*models.VocabEntry, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID, "date": date})
}

func (r *vocabRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.VocabEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("vocab_repo")

	query, args, err := sqlBuilder.
		Select("id", "user_id", "day_no", "date", "word", "translation").
		From("vocab").
		Where(where).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var e models.VocabEntry
	var translation string
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&e.ID, &e.UserID, &e.DayNo, &e.Date, &e.Word, &translation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get vocab entry: %v", err)
		return nil, err
	}
	e.Translations = models.SplitTranslations(translation)
	return &e, nil
}

func (r *vocabRepository) List(ctx context.Context, userID int64) ([]models.VocabEntry, error) {
	return r.list(ctx, userID, "day_no ASC", 0)
}

func (r *vocabRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.VocabEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.list(ctx, userID, "day_no DESC", limit)
}

func (r *vocabRepository) list(ctx context.Context, userID int64, orderBy string, limit int) ([]models.VocabEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("vocab_repo")
	log.Debug("listing vocab: user_id=%d, order=%s, limit=%d", userID, orderBy, limit)

	q := sqlBuilder.
		Select("id", "user_id", "day_no", "date", "word", "translation").
		From("vocab").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(orderBy)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list vocab: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.VocabEntry
	for rows.Next() {
		var e models.VocabEntry
		var translation string
		if err := rows.Scan(&e.ID, &e.UserID, &e.DayNo, &e.Date, &e.Word, &translation); err != nil {
			log.Error("failed to scan vocab row: %v", err)
			return nil, err
		}
		e.Translations = models.SplitTranslations(translation)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *vocabRepository) MaxDayNo(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("vocab_repo")

	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(day_no) FROM vocab WHERE user_id = ?`, userID).Scan(&max)
	if err != nil {
		log.Error("failed to get max day_no: %v", err)
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}
