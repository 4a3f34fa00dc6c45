package service

import (
	"log/slog"

	"github.com/mindgrid-games/tictactoe-bot/internal/engine"
	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

type BotService interface {
	ChooseMove(board entity.Board, mover entity.Mark) (int, bool)
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// ChooseMove - runs the minimax search for mover on the given board.
// ok is false only when the board is already terminal.
func (that *botService) ChooseMove(board entity.Board, mover entity.Mark) (int, bool) {
	result := engine.BestMove(board, mover)
	if result.Move == engine.NoMove {
		return 0, false
	}

	that.logger.Debug("search finished",
		"cell", result.Move,
		"score", result.Score,
		"nodes", result.Nodes,
	)

	return result.Move, true
}
