package services

import "sync"

// userLocks serializes critical sections per user. Guards the
// check-today-then-create window in daily assignment and the aggregate-and-
// finish window in quiz finishing, on top of the store-level constraints.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given user and returns its unlock func.
// Locks are never reclaimed; the user population of a personal service is
// small enough that this does not matter.
func (l *userLocks) Lock(userID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
