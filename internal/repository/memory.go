package repository

import (
	"context"
	"sync"

	"github.com/mindgrid-games/tictactoe-bot/internal/apperror"
	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

// memoryStats - process-local stats store, used when redis is disabled.
// Scores start fresh on every run, which the core explicitly permits.
type memoryStats struct {
	mu    sync.RWMutex
	stats map[string]entity.Scoreboard
}

func NewMemoryStatsRepository() StatsRepository {
	return &memoryStats{
		stats: make(map[string]entity.Scoreboard),
	}
}

func (that *memoryStats) Save(_ context.Context, sessionID string, stats *entity.Scoreboard) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stats[sessionID] = *stats

	return nil
}

func (that *memoryStats) Load(_ context.Context, sessionID string) (*entity.Scoreboard, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stats, ok := that.stats[sessionID]
	if !ok {
		return nil, apperror.ErrStatsNotFound
	}

	return &stats, nil
}

func (that *memoryStats) Delete(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.stats, sessionID)

	return nil
}
