// Package game holds the controller: the state machine that owns the live
// board, sequences turns between the player and the bot, and keeps the
// scoreboard across games.
package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
)

// Status of the controller's state machine.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusOngoing    Status = "ongoing"
	StatusFinished   Status = "finished"
)

// EventKind identifies a controller notification.
type EventKind string

const (
	EventGameStarted  EventKind = "game:started"
	EventPlayerMoved  EventKind = "player:moved"
	EventBotThinking  EventKind = "bot:thinking"
	EventBotMoved     EventKind = "bot:moved"
	EventGameFinished EventKind = "game:finished"
	EventGameReset    EventKind = "game:reset"
	EventStatsReset   EventKind = "stats:reset"
)

// Snapshot is the externally observable state: board contents, whose turn
// it is, terminal outcome with the winning pattern, and the scoreboard.
type Snapshot struct {
	Board          entity.Board      `json:"board"`
	Status         Status            `json:"status"`
	Turn           entity.Mark       `json:"turn,omitempty"`
	Outcome        entity.Outcome    `json:"outcome,omitempty"`
	WinningPattern []int             `json:"winning_pattern,omitempty"`
	BotThinking    bool              `json:"bot_thinking"`
	Stats          entity.Scoreboard `json:"stats"`
}

// Listener receives controller events together with the snapshot taken
// right after the transition. Called outside the controller lock, so a
// listener may call back into the controller.
type Listener func(event EventKind, snapshot Snapshot)

// botPlayer - chooses the bot's cell for a board position. ok is false when
// the position is already terminal.
type botPlayer interface {
	ChooseMove(board entity.Board, mover entity.Mark) (cell int, ok bool)
}

// Controller owns the authoritative board. All mutation happens under one
// lock; the bot-move timer callback re-enters through the same lock, so
// moves never interleave.
type Controller struct {
	logger *slog.Logger
	bot    botPlayer

	// cosmetic pause between running the search and applying its move
	thinkDelay time.Duration
	listener   Listener

	mu             sync.Mutex
	board          entity.Board
	status         Status
	turn           entity.Mark
	outcome        entity.Outcome
	winningPattern []int
	stats          entity.Scoreboard
	thinking       bool
	generation     uint64
}

func NewController(logger *slog.Logger, bot botPlayer, thinkDelay time.Duration, listener Listener) *Controller {
	if listener == nil {
		listener = func(EventKind, Snapshot) {}
	}

	return &Controller{
		logger:     logger.With("component", "game-controller"),
		bot:        bot,
		thinkDelay: thinkDelay,
		listener:   listener,
		status:     StatusNotStarted,
	}
}

// StartGame - clears the board and begins a new game with firstMover to
// move. A bot-move sequence still pending from a previous game is
// invalidated. The scoreboard is kept.
func (that *Controller) StartGame(firstMover entity.Mark) {
	if !firstMover.IsPlayable() {
		panic("first mover must be a playable mark")
	}

	that.mu.Lock()

	that.generation++
	that.board.Clear()
	that.status = StatusOngoing
	that.turn = firstMover
	that.outcome = ""
	that.winningPattern = nil
	that.thinking = false

	snapshot := that.snapshotLocked()
	botMoves := firstMover == entity.BotMark

	that.mu.Unlock()

	that.listener(EventGameStarted, snapshot)
	that.logger.Info("game started", "first_mover", string(firstMover))

	if botMoves {
		that.scheduleBotMove()
	}
}

// SubmitPlayerMove - applies the player's move. Anything invalid — wrong
// state, not the player's turn, a pending bot move, an occupied or
// out-of-range cell — is expected UI noise and silently ignored.
func (that *Controller) SubmitPlayerMove(cell int) {
	that.mu.Lock()

	if !that.playerMayMoveLocked(cell) {
		that.mu.Unlock()
		return
	}

	that.board.Place(cell, entity.PlayerMark)
	finished := that.resolveTurnLocked(entity.PlayerMark)

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.listener(EventPlayerMoved, snapshot)

	if finished {
		that.listener(EventGameFinished, snapshot)
		return
	}

	that.scheduleBotMove()
}

// ResetGame - abandons the current game and returns to NotStarted. A
// pending bot move is discarded; the scoreboard survives.
func (that *Controller) ResetGame() {
	that.mu.Lock()

	that.generation++
	that.board.Clear()
	that.status = StatusNotStarted
	that.turn = ""
	that.outcome = ""
	that.winningPattern = nil
	that.thinking = false

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.listener(EventGameReset, snapshot)
	that.logger.Info("game reset")
}

// ResetStats - zeroes the scoreboard, independent of game state.
func (that *Controller) ResetStats() {
	that.mu.Lock()
	that.stats.Reset()
	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.listener(EventStatsReset, snapshot)
	that.logger.Info("stats reset")
}

// RestoreStats - replaces the scoreboard, e.g. with counters loaded from a
// stats store on reconnect.
func (that *Controller) RestoreStats(stats entity.Scoreboard) {
	that.mu.Lock()
	that.stats = stats
	that.mu.Unlock()
}

// Snapshot - returns a copy of the observable state.
func (that *Controller) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// scheduleBotMove - runs the search right away, then applies the chosen
// cell after the cosmetic delay. The generation captured here is compared
// again when the timer fires: a game started or reset in between bumps it,
// and the stale result is discarded instead of hitting the new board.
func (that *Controller) scheduleBotMove() {
	that.mu.Lock()

	if that.status != StatusOngoing || that.turn != entity.BotMark || that.thinking {
		that.mu.Unlock()
		return
	}

	that.thinking = true
	generation := that.generation
	board := that.board

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.listener(EventBotThinking, snapshot)

	cell, ok := that.bot.ChooseMove(board, entity.BotMark)
	if !ok {
		// non-terminal ongoing board always has a move; reaching this
		// means the state machine is broken
		panic("bot has no move on an ongoing board")
	}

	time.AfterFunc(that.thinkDelay, func() {
		that.applyBotMove(generation, cell)
	})
}

// applyBotMove - timer callback for a scheduled bot move.
func (that *Controller) applyBotMove(generation uint64, cell int) {
	that.mu.Lock()

	if generation != that.generation || that.status != StatusOngoing || !that.thinking {
		that.mu.Unlock()
		that.logger.Debug("discarding stale bot move", "cell", cell)
		return
	}

	that.thinking = false
	that.board.Place(cell, entity.BotMark)
	finished := that.resolveTurnLocked(entity.BotMark)

	snapshot := that.snapshotLocked()
	that.mu.Unlock()

	that.listener(EventBotMoved, snapshot)
	that.logger.Info("bot moved", "cell", cell)

	if finished {
		that.listener(EventGameFinished, snapshot)
	}
}

// playerMayMoveLocked - the player move guard: ongoing game, player's turn,
// no pending bot move, a cell that exists and is empty.
func (that *Controller) playerMayMoveLocked(cell int) bool {
	if that.status != StatusOngoing || that.turn != entity.PlayerMark || that.thinking {
		return false
	}

	if cell < 0 || cell >= entity.BoardSize {
		return false
	}

	return that.board.IsEmpty(cell)
}

// resolveTurnLocked - terminal-checks the board after mover's move.
// Finishes the game and records the scoreboard exactly once, or flips the
// turn. Reports whether the game finished.
func (that *Controller) resolveTurnLocked(mover entity.Mark) bool {
	winner, pattern := that.board.Winner()

	switch {
	case winner == entity.BotMark:
		that.finishLocked(entity.OutcomeBotWon, pattern)
	case winner == entity.PlayerMark:
		that.finishLocked(entity.OutcomePlayerWon, pattern)
	case that.board.IsFull():
		that.finishLocked(entity.OutcomeDraw, nil)
	default:
		that.turn = mover.Opponent()
		return false
	}

	return true
}

func (that *Controller) finishLocked(outcome entity.Outcome, pattern []int) {
	that.status = StatusFinished
	that.turn = ""
	that.outcome = outcome
	that.winningPattern = pattern
	that.stats.Record(outcome)
}

func (that *Controller) snapshotLocked() Snapshot {
	var pattern []int
	if that.winningPattern != nil {
		pattern = append(pattern, that.winningPattern...)
	}

	return Snapshot{
		Board:          that.board,
		Status:         that.status,
		Turn:           that.turn,
		Outcome:        that.outcome,
		WinningPattern: pattern,
		BotThinking:    that.thinking,
		Stats:          that.stats,
	}
}
