package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"vocapsule/internal/logger"
	"vocapsule/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store is the sqlite-backed repository.Store implementation.
type Store struct {
	db  *sql.DB
	log *logger.Logger

	users  repository.UserRepository
	vocab  repository.VocabRepository
	quiz   repository.QuizRepository
	scores repository.ScoreRepository
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("sqlite")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // SQLite best practice for single writer

	s := NewStore(sqlDB)

	log.Debug("applying migrations")
	if err := s.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Info("database ready")
	return s, nil
}

// NewStore wraps an already opened database. Migrations are not applied;
// tests use this with testutil.NewTestDB.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		log:    logger.Default().WithPrefix("sqlite"),
		users:  &userRepository{db: db},
		vocab:  &vocabRepository{db: db},
		quiz:   &quizRepository{db: db},
		scores: &scoreRepository{db: db},
	}
}

func (s *Store) Users() repository.UserRepository   { return s.users }
func (s *Store) Vocab() repository.VocabRepository  { return s.vocab }
func (s *Store) Quizzes() repository.QuizRepository { return s.quiz }
func (s *Store) Scores() repository.ScoreRepository { return s.scores }

// ResetUser deletes all rows owned by the user, across every entity type,
// in one transaction.
func (s *Store) ResetUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx).WithPrefix("sqlite")
	log.Debug("resetting user data: user_id=%d", userID)

	return tx(ctx, s.db, s.log, func(t *sql.Tx) error {
		for _, table := range []string{"vocab", "answers", "quiz_sessions", "scores"} {
			if _, err := t.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, table), userID); err != nil {
				log.Error("failed to reset %s: %v", table, err)
				return err
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	s.log.Debug("closing database connection")
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := s.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			s.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		s.log.Info("applying migration: %s", version)
		if _, err := s.db.ExecContext(ctx, string(sqlBytes)); err != nil {
			s.log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
		s.log.Info("migration %s applied successfully", version)
	}
	return nil
}

func (s *Store) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func tx(ctx context.Context, db *sql.DB, log *logger.Logger, fn func(*sql.Tx) error) error {
	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(t); err != nil {
		_ = t.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := t.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	return nil
}
