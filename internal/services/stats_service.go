package services

import (
	"context"

	"vocapsule/internal/errors"
	"vocapsule/internal/logger"
	"vocapsule/internal/models"
	"vocapsule/internal/repository"
)

// StatsService computes progress statistics from score history
type StatsService interface {
	Stats(ctx context.Context, userID int64) (*models.Stats, error)
}

type statsService struct {
	store repository.Store
}

// NewStatsService creates a new StatsService
func NewStatsService(store repository.Store) StatsService {
	return &statsService{store: store}
}

func (s *statsService) Stats(ctx context.Context, userID int64) (*models.Stats, error) {
	log := logger.FromContext(ctx)

	totalWords, err := s.store.Vocab().MaxDayNo(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Streak counts the unbroken run of scored days ending at the latest
	// learning day. A gap at the top means streak zero even if earlier days
	// were all scored.
	streak := 0
	for day := totalWords; day >= 1; day-- {
		scored, err := s.store.Scores().HasDay(ctx, userID, day)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if !scored {
			break
		}
		streak++
	}

	latest, err := s.store.Scores().Latest(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	stats := &models.Stats{TotalWords: totalWords, Streak: streak}
	if latest != nil {
		stats.Last = &models.LastScore{DayNo: latest.DayNo, Accuracy: latest.Accuracy}
	}

	log.Debug("stats computed: user_id=%d, total_words=%d, streak=%d", userID, totalWords, streak)
	return stats, nil
}
