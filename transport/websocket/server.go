package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
	"github.com/mindgrid-games/tictactoe-bot/internal/game"
	"github.com/mindgrid-games/tictactoe-bot/internal/pkg"
	"github.com/mindgrid-games/tictactoe-bot/internal/usecase"
)

type gameManager interface {
	Connect(ctx context.Context, sessionID string) (*entity.Player, game.Snapshot, error)
	SetListener(sessionID string, listener usecase.Listener) error

	StartGame(sessionID string, firstMover entity.Mark) (game.Snapshot, error)
	MakeTurn(sessionID string, cell int) (game.Snapshot, error)
	ResetGame(sessionID string) (game.Snapshot, error)
	ResetStats(ctx context.Context, sessionID string) (game.Snapshot, error)
	GameState(sessionID string) (game.Snapshot, error)
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager

	handlers map[string]func(ctx context.Context, message *Message, conn *connection) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:      logger,
		gameManager: manager,

		handlers: make(map[string]func(context.Context, *Message, *connection) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:start"] = server.handleStartGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:reset"] = server.handleResetGame
	server.handlers["game:state"] = server.handleGameState
	server.handlers["stats:reset"] = server.handleResetStats

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	that.setSessionCookie(writer, req)

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, &connection{bufrw: bufrw}); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "HandleMessages")

	for {
		reqBody, err := readRequest(conn.bufrw)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}

			log.Error("error reading message", "error", err)
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "error", err)
		}
	}
}

// setSessionCookie - set user session.
func (that *Server) setSessionCookie(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "setSessionCookie")

	cookie, err := req.Cookie("user_session")
	if err != nil {
		cookie = &http.Cookie{
			Name:    "user_session",
			Value:   pkg.GenerateNewSessionID(),
			Expires: time.Now().Add(24 * time.Hour),
			Path:    "/ws",
		}
		http.SetCookie(writer, cookie)
		log.Info("session cookie not found, new one created", "cookie", cookie.Value)
		return
	}

	log.Info("session cookie found", "cookie", cookie.Value)
}
