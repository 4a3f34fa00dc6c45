package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
	"github.com/mindgrid-games/tictactoe-bot/internal/game"
)

const (
	firstMoverPlayer = "player"
	firstMoverBot    = "bot"
)

// pushedEvents - controller events forwarded to the client as server-pushed
// messages. Player-initiated actions are answered in-band instead.
var pushedEvents = map[game.EventKind]string{
	game.EventBotThinking:  "bot:thinking",
	game.EventBotMoved:     "bot:moved",
	game.EventGameFinished: "game:finished",
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	var sessionID string
	if payloadReq.Player != nil {
		sessionID = payloadReq.Player.ID
	}

	player, snapshot, err := that.gameManager.Connect(ctx, sessionID)
	if err != nil {
		log.Error("failed to connect session", "error", err)

		return that.sendErrorResponse(conn, msg.Action, "failed to connect")
	}

	if err = that.gameManager.SetListener(player.ID, func(event game.EventKind, snapshot game.Snapshot) {
		action, ok := pushedEvents[event]
		if !ok {
			return
		}

		if sendErr := conn.sendMessage(action, Payload{Game: newGameResponse(snapshot)}); sendErr != nil {
			log.Error("failed to push game event", "action", action, "error", sendErr)
		}
	}); err != nil {
		log.Error("failed to attach listener", "error", err)

		return that.sendErrorResponse(conn, msg.Action, "failed to connect")
	}

	payloadResp := Payload{
		Player: player,
		Game:   newGameResponse(snapshot),
	}

	if err = conn.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleStartGame(_ context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleStartGame")

	payloadReq, err := that.sessionPayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	firstMover := entity.PlayerMark
	switch payloadReq.First {
	case firstMoverPlayer, "":
	case firstMoverBot:
		firstMover = entity.BotMark
	default:
		return that.sendErrorResponse(conn, msg.Action, "first must be player or bot")
	}

	snapshot, err := that.gameManager.StartGame(payloadReq.Player.ID, firstMover)
	if err != nil {
		log.Error("failed to start game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to start game")
	}

	log.Info("game started", "playerID", payloadReq.Player.ID, "first", string(firstMover))

	return conn.sendMessage(msg.Action, Payload{Player: payloadReq.Player, Game: newGameResponse(snapshot)})
}

func (that *Server) handleGameTurn(_ context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := that.sessionPayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	if payloadReq.Cell == nil {
		log.Error("Cell is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Cell is required")
	}

	snapshot, err := that.gameManager.MakeTurn(payloadReq.Player.ID, *payloadReq.Cell)
	if err != nil {
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to make turn")
	}

	log.Info("player turn handled", "playerID", payloadReq.Player.ID, "cell", *payloadReq.Cell)

	return conn.sendMessage(msg.Action, Payload{Player: payloadReq.Player, Game: newGameResponse(snapshot)})
}

func (that *Server) handleResetGame(_ context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleResetGame")

	payloadReq, err := that.sessionPayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	snapshot, err := that.gameManager.ResetGame(payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to reset game")
	}

	log.Info("game reset", "playerID", payloadReq.Player.ID)

	return conn.sendMessage(msg.Action, Payload{Player: payloadReq.Player, Game: newGameResponse(snapshot)})
}

func (that *Server) handleGameState(_ context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameState")

	payloadReq, err := that.sessionPayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	snapshot, err := that.gameManager.GameState(payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to get game state", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to get game state")
	}

	return conn.sendMessage(msg.Action, Payload{Player: payloadReq.Player, Game: newGameResponse(snapshot)})
}

func (that *Server) handleResetStats(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleResetStats")

	payloadReq, err := that.sessionPayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	snapshot, err := that.gameManager.ResetStats(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to reset stats", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to reset stats")
	}

	log.Info("stats reset", "playerID", payloadReq.Player.ID)

	return conn.sendMessage(msg.Action, Payload{Player: payloadReq.Player, Game: newGameResponse(snapshot)})
}

// sessionPayload - unmarshals the payload and requires a player id. Returns
// a nil payload when the request was already answered with an error.
func (that *Server) sessionPayload(msg *Message, conn *connection) (*Payload, error) {
	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Player.ID == "" {
		that.logger.Error("Player is missing in payload", "action", msg.Action)
		return nil, that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	return &payloadReq, nil
}

func (that *Server) sendErrorResponse(conn *connection, action, message string) error {
	if err := conn.sendMessage(action, Payload{Error: message}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
