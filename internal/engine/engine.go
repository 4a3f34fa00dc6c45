// Package engine implements the game-outcome search: a recursive minimax
// with alpha-beta pruning over the 3x3 board. The search is exhaustive up to
// pruning, so the bot plays perfectly and never loses.
package engine

import (
	"fmt"
	"math"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

// NoMove - reported when the evaluated position is already terminal.
const NoMove = -1

const (
	botWinScore    = 10
	playerWinScore = -10
)

// Result is the outcome of a search: the score of the position from the
// bot's perspective, the chosen cell (NoMove on a terminal board), and the
// number of nodes explored.
type Result struct {
	Score int
	Move  int
	Nodes int
}

// BestMove - returns the game-theoretically optimal move for mover on the
// given board. Scores are depth-adjusted: faster wins and slower losses
// score better, so +10 means an immediate bot win and 0 a draw under
// optimal play. Ties between equally scored moves keep the first one
// encountered in ascending index order along the unpruned search.
//
// The board is received by value; the search mutates only its own copy.
func BestMove(board entity.Board, mover entity.Mark) Result {
	if !mover.IsPlayable() {
		panic(fmt.Sprintf("invalid mover %q", string(mover)))
	}

	search := &searcher{board: board}

	score, move := search.minimax(mover, 0, math.MinInt, math.MaxInt)

	return Result{
		Score: score,
		Move:  move,
		Nodes: search.nodes,
	}
}

type searcher struct {
	board entity.Board
	nodes int
}

// minimax - evaluates the position with mover to play. alpha is the best
// score the bot already guarantees on the current path, beta the best score
// the player guarantees; once beta <= alpha the remaining siblings cannot
// change the outcome and are skipped.
func (that *searcher) minimax(mover entity.Mark, depth, alpha, beta int) (int, int) {
	that.nodes++

	if score, terminal := that.evaluate(depth); terminal {
		return score, NoMove
	}

	maximizing := mover == entity.BotMark

	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}
	bestMove := NoMove

	for _, cell := range that.board.EmptyIndices() {
		that.board.Place(cell, mover)
		score, _ := that.minimax(mover.Opponent(), depth+1, alpha, beta)
		that.board[cell] = entity.EmptyCell

		if maximizing {
			if score > bestScore {
				bestScore, bestMove = score, cell
			}
			alpha = max(alpha, score)
		} else {
			if score < bestScore {
				bestScore, bestMove = score, cell
			}
			beta = min(beta, score)
		}

		if beta <= alpha {
			break
		}
	}

	return bestScore, bestMove
}

// evaluate - terminal check, winner before fullness. Depth adjustment
// prefers the shortest path to a win and the longest path to a loss.
func (that *searcher) evaluate(depth int) (int, bool) {
	switch winner, _ := that.board.Winner(); winner {
	case entity.BotMark:
		return botWinScore - depth, true
	case entity.PlayerMark:
		return playerWinScore + depth, true
	}

	if that.board.IsFull() {
		return 0, true
	}

	return 0, false
}
