package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mindgrid-games/tictactoe-bot/internal/apperror"
	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

type StatsRepository interface {
	Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error
	Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	Delete(ctx context.Context, sessionID string) error
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("could not marshal stats: %w", err)
	}

	statsKey := "stats:" + sessionID
	err = that.client.Set(ctx, statsKey, statsJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set stats: %w", err)
	}

	return nil
}

func (that *dbStats) Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error) {
	statsKey := "stats:" + sessionID

	response, err := that.client.Get(ctx, statsKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrStatsNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get stats by session: %w", err)
	}

	var stats entity.Scoreboard
	if err = json.Unmarshal([]byte(response), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &stats, nil
}

func (that *dbStats) Delete(ctx context.Context, sessionID string) error {
	statsKey := "stats:" + sessionID

	err := that.client.Del(ctx, statsKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete stats by session: %w", err)
	}

	return nil
}
