package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mindgrid-games/tictactoe-bot/internal/apperror"
	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

type StatsService interface {
	Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error
	Delete(ctx context.Context, sessionID string) error
}

type statsRepo interface {
	Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error
	Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	Delete(ctx context.Context, sessionID string) error
}

type statsService struct {
	logger    *slog.Logger
	statsRepo statsRepo
}

func NewStatsService(logger *slog.Logger, statsRepo statsRepo) StatsService {
	return &statsService{
		logger:    logger.With("component", "stats"),
		statsRepo: statsRepo,
	}
}

// Load - returns the stored scoreboard for a session, or a fresh one when
// nothing was stored yet. Scores starting over after a lost store is
// acceptable; durability is best-effort.
func (that *statsService) Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error) {
	stats, err := that.statsRepo.Load(ctx, sessionID)
	if errors.Is(err, apperror.ErrStatsNotFound) {
		return &entity.Scoreboard{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	return stats, nil
}

func (that *statsService) Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error {
	if err := that.statsRepo.Save(ctx, sessionID, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}

func (that *statsService) Delete(ctx context.Context, sessionID string) error {
	if err := that.statsRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete stats: %w", err)
	}

	return nil
}
