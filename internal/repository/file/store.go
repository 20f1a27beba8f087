// Package file implements the repository.Store interface over per-user JSON
// files, mirroring the original deployment mode where a relational database
// is unavailable. One store-wide mutex serializes all access; the backend is
// meant for single-process personal use.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vocapsule/internal/logger"
)

type userRec struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type vocabRec struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	DayNo       int    `json:"day_no"`
	Date        string `json:"date"`
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

type sessionRec struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	QuizID    string    `json:"quiz_id"`
	DayNo     int       `json:"day_no"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`
}

type answerRec struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	QuizID     string `json:"quiz_id"`
	WordID     int64  `json:"word_id"`
	UserAnswer string `json:"user_answer"`
	Correct    bool   `json:"correct"`
}

type scoreRec struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	QuizID   string  `json:"quiz_id"`
	DayNo    int     `json:"day_no"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type quizFile struct {
	Sessions []sessionRec `json:"sessions"`
	Answers  []answerRec  `json:"answers"`
}

// Store is the JSON-file-backed repository.Store implementation.
type Store struct {
	dir string
	mu  sync.Mutex
	log *logger.Logger
}

// Open ensures the data directory exists and returns a Store over it.
func Open(dir string) (*Store, error) {
	log := logger.Default().WithPrefix("filestore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("failed to create data dir: %v", err)
		return nil, err
	}
	log.Info("file store ready: dir=%s", dir)
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) usersPath() string {
	return filepath.Join(s.dir, "users.json")
}

func (s *Store) vocabPath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("vocab_%d.json", userID))
}

func (s *Store) quizPath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("quiz_%d.json", userID))
}

func (s *Store) scoresPath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("scores_%d.json", userID))
}

// readJSON loads path into v. A missing file leaves v at its zero value.
func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		s.log.Error("failed to read %s: %v", path, err)
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Error("failed to parse %s: %v", path, err)
		return err
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("failed to write %s: %v", path, err)
		return err
	}
	return nil
}

// ResetUser removes the user's vocab, quiz and score files. The account
// itself is kept, matching the relational backend's reset.
func (s *Store) ResetUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("resetting user data: user_id=%d", userID)
	for _, path := range []string{s.vocabPath(userID), s.quizPath(userID), s.scoresPath(userID)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Error("failed to remove %s: %v", path, err)
			return err
		}
	}
	return nil
}
