package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

const (
	x = entity.BotMark
	o = entity.PlayerMark
	e = entity.EmptyCell
)

func TestBestMove_ForcedWin(t *testing.T) {
	t.Run("Takes the winning cell when one move completes a row", func(t *testing.T) {
		// Given: X X _ / O O _ / _ _ _ with the bot (X) to move
		board := entity.Board{x, x, e, o, o, e, e, e, e}

		// When: searching for the best move
		result := BestMove(board, entity.BotMark)

		// Then: it should complete the top row; the win is one ply away
		assert.Equal(t, 2, result.Move)
		assert.Equal(t, 9, result.Score) // 10 - 1 ply
	})

	t.Run("Blocks the opponent when no own win exists", func(t *testing.T) {
		// Given: O O _ / X _ _ / X _ _ with the bot to move
		board := entity.Board{o, o, e, x, e, e, x, e, e}

		// When: searching for the best move
		result := BestMove(board, entity.BotMark)

		// Then: it should block the top row
		assert.Equal(t, 2, result.Move)
	})
}

func TestBestMove_CenterOpeningReply(t *testing.T) {
	t.Run("Replies to a center opening with a corner", func(t *testing.T) {
		// Given: the player occupies the center on an otherwise empty board
		board := entity.Board{e, e, e, e, o, e, e, e, e}

		// When: searching for the bot's reply
		result := BestMove(board, entity.BotMark)

		// Then: any edge reply loses against optimal play, so a corner is chosen
		assert.Contains(t, []int{0, 2, 6, 8}, result.Move)
		assert.Equal(t, 0, result.Score)
	})
}

func TestBestMove_EmptyBoard(t *testing.T) {
	t.Run("Opening position is a draw under optimal play", func(t *testing.T) {
		// Given: an empty board with the bot to move
		board := entity.Board{}

		// When: searching for the opening move
		result := BestMove(board, entity.BotMark)

		// Then: the score is 0 and the move is one of the optimal openings
		assert.Equal(t, 0, result.Score)
		assert.Contains(t, []int{0, 2, 4, 6, 8}, result.Move)
		assert.Positive(t, result.Nodes)
	})
}

func TestBestMove_TerminalBoard(t *testing.T) {
	t.Run("Already-won board returns the terminal score and no move", func(t *testing.T) {
		// Given: a board the bot has already won
		board := entity.Board{x, x, x, o, o, e, e, e, e}

		// When: searching anyway
		result := BestMove(board, entity.BotMark)

		// Then: a well-defined result, not a failure
		assert.Equal(t, NoMove, result.Move)
		assert.Equal(t, 10, result.Score)
	})

	t.Run("Drawn full board returns score 0 and no move", func(t *testing.T) {
		// Given: X O X / X O O / O X X
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		// When: searching anyway
		result := BestMove(board, entity.BotMark)

		// Then: neutral score, no move
		assert.Equal(t, NoMove, result.Move)
		assert.Equal(t, 0, result.Score)
	})
}

func TestBestMove_DoesNotMutateCallerBoard(t *testing.T) {
	// Given: a mid-game board
	board := entity.Board{x, e, e, e, o, e, e, e, e}
	snapshot := board

	// When: running a full search
	_ = BestMove(board, entity.BotMark)

	// Then: the caller's board is untouched
	assert.Equal(t, snapshot, board)
}

func TestBestMove_InvalidMoverPanics(t *testing.T) {
	assert.Panics(t, func() {
		BestMove(entity.Board{}, entity.EmptyCell)
	})
}

// TestBestMove_NeverLoses plays the bot against every possible opponent
// line: the opponent tries each legal reply exhaustively while the bot
// answers with its search. No branch may end in a player win.
func TestBestMove_NeverLoses(t *testing.T) {
	t.Run("Bot moving first", func(t *testing.T) {
		var board entity.Board
		exploreOpponentReplies(t, board, entity.BotMark)
	})

	t.Run("Player moving first from every opening cell", func(t *testing.T) {
		for opening := 0; opening < entity.BoardSize; opening++ {
			var board entity.Board
			board.Place(opening, entity.PlayerMark)
			exploreOpponentReplies(t, board, entity.BotMark)
		}
	})
}

// exploreOpponentReplies - the bot plays its searched move, then every
// legal player reply is explored recursively.
func exploreOpponentReplies(t *testing.T, board entity.Board, mover entity.Mark) {
	t.Helper()

	winner, _ := board.Winner()
	require.NotEqual(t, entity.PlayerMark, winner, "player won: %v", board)

	if winner != entity.EmptyCell || board.IsFull() {
		return
	}

	if mover == entity.BotMark {
		result := BestMove(board, entity.BotMark)
		require.NotEqual(t, NoMove, result.Move)

		board.Place(result.Move, entity.BotMark)
		exploreOpponentReplies(t, board, entity.PlayerMark)

		return
	}

	for _, cell := range board.EmptyIndices() {
		next := board
		next.Place(cell, entity.PlayerMark)
		exploreOpponentReplies(t, next, entity.BotMark)
	}
}

// TestBestMove_OptimalSelfPlay lets the search play both sides to the end;
// perfect play from both sides must draw.
func TestBestMove_OptimalSelfPlay(t *testing.T) {
	for _, firstMover := range []entity.Mark{entity.BotMark, entity.PlayerMark} {
		t.Run("First mover "+string(firstMover), func(t *testing.T) {
			var board entity.Board
			mover := firstMover

			for {
				winner, _ := board.Winner()
				if winner != entity.EmptyCell || board.IsFull() {
					break
				}

				result := BestMove(board, mover)
				require.NotEqual(t, NoMove, result.Move)
				board.Place(result.Move, mover)
				mover = mover.Opponent()
			}

			winner, _ := board.Winner()
			assert.Equal(t, entity.EmptyCell, winner, "optimal self-play must draw: %v", board)
			assert.True(t, board.IsFull())
		})
	}
}
