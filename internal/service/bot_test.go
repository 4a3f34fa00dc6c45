package service

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

func newBot(t *testing.T) BotService {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewBotService(logger)
}

func TestBotService_ChooseMove(t *testing.T) {
	t.Run("Picks the immediate win", func(t *testing.T) {
		// Given: X X _ on the top row, bot to move
		bot := newBot(t)
		board := entity.Board{
			entity.BotMark, entity.BotMark, entity.EmptyCell,
			entity.PlayerMark, entity.PlayerMark, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}

		// When: choosing a move
		cell, ok := bot.ChooseMove(board, entity.BotMark)

		// Then: the winning cell is chosen
		require.True(t, ok)
		assert.Equal(t, 2, cell)
	})

	t.Run("Reports no move on a terminal board", func(t *testing.T) {
		// Given: a board the bot already won
		bot := newBot(t)
		board := entity.Board{
			entity.BotMark, entity.BotMark, entity.BotMark,
			entity.PlayerMark, entity.PlayerMark, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}

		// When: choosing a move
		_, ok := bot.ChooseMove(board, entity.BotMark)

		// Then: there is nothing to play
		assert.False(t, ok)
	})
}
