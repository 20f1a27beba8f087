package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/models"
	"vocapsule/internal/repository"
	"vocapsule/internal/services"
)

func scoreDay(t *testing.T, store repository.Store, userID int64, dayNo int, accuracy float64) {
	ctx := context.Background()
	quizID := fmt.Sprintf("quiz-day-%d", dayNo)
	require.NoError(t, store.Quizzes().CreateSession(ctx, models.QuizSession{
		UserID: userID, QuizID: quizID, DayNo: dayNo,
	}))
	finished, err := store.Quizzes().Finish(ctx, userID, quizID, models.ScoreRecord{
		UserID: userID, QuizID: quizID, DayNo: dayNo, Total: 4, Correct: 3, Accuracy: accuracy,
	})
	require.NoError(t, err)
	require.True(t, finished)
}

func TestStatsEmptyUser(t *testing.T) {
	store := newTestStore(t)
	svc := services.NewStatsService(store)
	userID := createUser(t, store, "s@example.com")

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalWords)
	assert.Equal(t, 0, stats.Streak)
	assert.Nil(t, stats.Last)
}

func TestStatsStreakCountsFromLatestDay(t *testing.T) {
	store := newTestStore(t)
	svc := services.NewStatsService(store)
	userID := createUser(t, store, "s@example.com")
	seedVocab(t, store, userID, "a", "b", "c", "d", "e")

	for _, day := range []int{3, 4, 5} {
		scoreDay(t, store, userID, day, 80.0)
	}

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalWords)
	assert.Equal(t, 3, stats.Streak)
	require.NotNil(t, stats.Last)
	assert.Equal(t, 5, stats.Last.DayNo)
	assert.Equal(t, 80.0, stats.Last.Accuracy)
}

func TestStatsStreakBreaksOnGap(t *testing.T) {
	store := newTestStore(t)
	svc := services.NewStatsService(store)
	userID := createUser(t, store, "s@example.com")
	seedVocab(t, store, userID, "a", "b", "c", "d", "e")

	// Day 3 is missing, so only days 4 and 5 count.
	for _, day := range []int{1, 2, 4, 5} {
		scoreDay(t, store, userID, day, 50.0)
	}

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Streak)
}

func TestStatsStreakZeroWhenLatestDayUnscored(t *testing.T) {
	store := newTestStore(t)
	svc := services.NewStatsService(store)
	userID := createUser(t, store, "s@example.com")
	seedVocab(t, store, userID, "a", "b", "c", "d", "e")

	// Every day but the latest is scored; the run ending at day 5 is empty.
	for _, day := range []int{1, 2, 3, 4} {
		scoreDay(t, store, userID, day, 100.0)
	}

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Streak)
	require.NotNil(t, stats.Last)
	assert.Equal(t, 4, stats.Last.DayNo)
}
