package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"vocapsule/internal/logger"
	"vocapsule/internal/models"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: email=%s", email)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, password_hash)
VALUES (?, ?)
`, email, passwordHash)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get user id: %v", err)
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at
FROM users
WHERE email = ?
`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: email=%s", email)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user by email: %v", err)
		return nil, err
	}
	return &u, nil
}
