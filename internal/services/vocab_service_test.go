package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/errors"
	"vocapsule/internal/repository"
	"vocapsule/internal/repository/sqlite"
	"vocapsule/internal/services"
	"vocapsule/internal/testutil"
	"vocapsule/internal/wordbank"
)

func newTestStore(t *testing.T) repository.Store {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })
	return sqlite.NewStore(db)
}

func newTestBank(t *testing.T, content string) *wordbank.Loader {
	path := filepath.Join(t.TempDir(), "word.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return wordbank.New(path)
}

func createUser(t *testing.T, store repository.Store, email string) int64 {
	user, err := store.Users().Create(context.Background(), email, "hash")
	require.NoError(t, err)
	return user.ID
}

func fixedClock(date string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", date)
		return ts
	}
}

const smallBank = `[
	{"word": "apple", "translation": "りんご"},
	{"word": "river", "translation": ["川", "河"]}
]`

func TestAssignTodayIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := services.NewVocabService(store, newTestBank(t, smallBank), time.UTC,
		services.WithClock(fixedClock("2026-09-01")))
	userID := createUser(t, store, "a@example.com")
	ctx := context.Background()

	first, existing, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Equal(t, 1, first.DayNo)
	assert.Equal(t, "2026-09-01", first.Date)

	second, existing, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Word, second.Word)
}

func TestAssignTodayAdvancesDayNo(t *testing.T) {
	store := newTestStore(t)
	bank := newTestBank(t, smallBank)
	userID := createUser(t, store, "a@example.com")
	ctx := context.Background()

	svc := services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-01")))
	day1, _, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)

	svc = services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-02")))
	day2, existing, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Equal(t, 2, day2.DayNo)
	assert.NotEqual(t, day1.Word, day2.Word, "assigned words must not repeat")
}

func TestAssignTodayBankExhausted(t *testing.T) {
	store := newTestStore(t)
	bank := newTestBank(t, `[{"word": "only", "translation": "唯一"}]`)
	userID := createUser(t, store, "a@example.com")
	ctx := context.Background()

	svc := services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-01")))
	_, _, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)

	svc = services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-02")))
	_, _, err = svc.AssignToday(ctx, userID)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoWordAvailable, appErr.Code)

	// Exhaustion must not leave a partial entry behind.
	entry, err := store.Vocab().GetByDate(ctx, userID, "2026-09-02")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestAssignTodayUsersAreIndependent(t *testing.T) {
	store := newTestStore(t)
	bank := newTestBank(t, `[{"word": "only", "translation": "唯一"}]`)
	svc := services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-01")))
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com")
	bob := createUser(t, store, "bob@example.com")

	a, _, err := svc.AssignToday(ctx, alice)
	require.NoError(t, err)
	b, _, err := svc.AssignToday(ctx, bob)
	require.NoError(t, err)

	// Both users can hold the same word; exhaustion is per user.
	assert.Equal(t, a.Word, b.Word)
}

func TestExportRendersHistory(t *testing.T) {
	store := newTestStore(t)
	bank := newTestBank(t, `[{"word": "apple", "translation": "りんご"}]`)
	svc := services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-01")))
	userID := createUser(t, store, "a@example.com")
	ctx := context.Background()

	_, _, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)

	out, err := svc.Export(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, out, "| Day | Date | Word | Translation | Accuracy |")
	assert.Contains(t, out, "| 1 | 2026-09-01 | apple | りんご | - |")
}

func TestResetClearsHistory(t *testing.T) {
	store := newTestStore(t)
	bank := newTestBank(t, smallBank)
	svc := services.NewVocabService(store, bank, time.UTC, services.WithClock(fixedClock("2026-09-01")))
	userID := createUser(t, store, "a@example.com")
	ctx := context.Background()

	_, _, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, userID))

	entries, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A fresh assignment starts over at day 1.
	entry, existing, err := svc.AssignToday(ctx, userID)
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Equal(t, 1, entry.DayNo)
}
