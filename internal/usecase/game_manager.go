package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mindgrid-games/tictactoe-bot/internal/apperror"
	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
	"github.com/mindgrid-games/tictactoe-bot/internal/game"
	"github.com/mindgrid-games/tictactoe-bot/internal/pkg"
)

var ErrInvalidFirstMover = errors.New("first mover must be player or bot")

type botService interface {
	ChooseMove(board entity.Board, mover entity.Mark) (int, bool)
}

type statsService interface {
	Load(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	Save(ctx context.Context, sessionID string, stats *entity.Scoreboard) error
	Delete(ctx context.Context, sessionID string) error
}

// Listener receives controller events for one session, e.g. to push them
// over a websocket.
type Listener func(event game.EventKind, snapshot game.Snapshot)

// session - one human playing against the bot: a dedicated controller plus
// the listener currently attached to it.
type session struct {
	player     *entity.Player
	controller *game.Controller

	mu       sync.Mutex
	listener Listener
}

func (that *session) notify(event game.EventKind, snapshot game.Snapshot) {
	that.mu.Lock()
	listener := that.listener
	that.mu.Unlock()

	if listener != nil {
		listener(event, snapshot)
	}
}

func (that *session) setListener(listener Listener) {
	that.mu.Lock()
	that.listener = listener
	that.mu.Unlock()
}

// GameManager owns one game controller per session and keeps each session's
// scoreboard in the stats store. Stats durability is best-effort: a failed
// save is logged, never surfaced as a game error.
type GameManager struct {
	logger       *slog.Logger
	botService   botService
	statsService statsService
	thinkDelay   time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewGameManager(logger *slog.Logger, botService botService, statsService statsService, thinkDelay time.Duration) *GameManager {
	return &GameManager{
		logger:       logger.With("component", "game-manager"),
		botService:   botService,
		statsService: statsService,
		thinkDelay:   thinkDelay,
		sessions:     make(map[string]*session),
	}
}

// Connect - returns the session for sessionID, creating it (and restoring
// its stored scoreboard) on first sight. An empty id gets a fresh session.
func (that *GameManager) Connect(ctx context.Context, sessionID string) (*entity.Player, game.Snapshot, error) {
	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
	}

	that.mu.Lock()
	existing, ok := that.sessions[sessionID]
	that.mu.Unlock()

	if ok {
		return existing.player, existing.controller.Snapshot(), nil
	}

	created, err := that.createSession(ctx, sessionID)
	if err != nil {
		return nil, game.Snapshot{}, fmt.Errorf("failed to create session: %w", err)
	}

	return created.player, created.controller.Snapshot(), nil
}

// SetListener - attaches the event listener for a session, replacing any
// previous one (a reconnecting client supersedes its old connection).
func (that *GameManager) SetListener(sessionID string, listener Listener) error {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return err
	}

	sess.setListener(listener)

	return nil
}

// StartGame - starts a new game for the session with the given first mover.
func (that *GameManager) StartGame(sessionID string, firstMover entity.Mark) (game.Snapshot, error) {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	if !firstMover.IsPlayable() {
		return game.Snapshot{}, ErrInvalidFirstMover
	}

	sess.controller.StartGame(firstMover)

	return sess.controller.Snapshot(), nil
}

// MakeTurn - submits the player's move. Invalid moves are dropped by the
// controller; the returned snapshot reflects whatever actually happened.
func (that *GameManager) MakeTurn(sessionID string, cell int) (game.Snapshot, error) {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	sess.controller.SubmitPlayerMove(cell)

	return sess.controller.Snapshot(), nil
}

// ResetGame - abandons the session's current game, keeping its scoreboard.
func (that *GameManager) ResetGame(sessionID string) (game.Snapshot, error) {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	sess.controller.ResetGame()

	return sess.controller.Snapshot(), nil
}

// ResetStats - zeroes the session's scoreboard and drops the stored copy.
func (that *GameManager) ResetStats(ctx context.Context, sessionID string) (game.Snapshot, error) {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	sess.controller.ResetStats()

	if err = that.statsService.Delete(ctx, sessionID); err != nil {
		that.logger.Error("failed to delete stored stats", "session", sessionID, "error", err)
	}

	return sess.controller.Snapshot(), nil
}

// GameState - the session's current snapshot.
func (that *GameManager) GameState(sessionID string) (game.Snapshot, error) {
	sess, err := that.getSession(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	return sess.controller.Snapshot(), nil
}

func (that *GameManager) createSession(ctx context.Context, sessionID string) (*session, error) {
	stats, err := that.statsService.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	sess := &session{
		player: &entity.Player{ID: sessionID, Mark: entity.PlayerMark},
	}

	sess.controller = game.NewController(that.logger, that.botService, that.thinkDelay, func(event game.EventKind, snapshot game.Snapshot) {
		if event == game.EventGameFinished {
			that.persistStats(sessionID, snapshot.Stats)
		}

		sess.notify(event, snapshot)
	})
	sess.controller.RestoreStats(*stats)

	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.sessions[sessionID]; ok {
		return existing, nil
	}

	that.sessions[sessionID] = sess
	that.logger.Info("session created", "session", sessionID)

	return sess, nil
}

func (that *GameManager) getSession(sessionID string) (*session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return sess, nil
}

// persistStats - event callbacks carry no request context, so saving uses a
// short background deadline.
func (that *GameManager) persistStats(sessionID string, stats entity.Scoreboard) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := that.statsService.Save(ctx, sessionID, &stats); err != nil {
		that.logger.Error("failed to save stats", "session", sessionID, "error", err)
	}
}
