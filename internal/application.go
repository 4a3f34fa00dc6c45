package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mindgrid-games/tictactoe-bot/internal/config"
	"github.com/mindgrid-games/tictactoe-bot/internal/repository"
	"github.com/mindgrid-games/tictactoe-bot/internal/repository/storage"
	"github.com/mindgrid-games/tictactoe-bot/internal/service"
	"github.com/mindgrid-games/tictactoe-bot/internal/usecase"
	"github.com/mindgrid-games/tictactoe-bot/transport/rest"
	"github.com/mindgrid-games/tictactoe-bot/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	statsRepo, closeStorage, err := newStatsRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	botService := service.NewBotService(logger)
	statsService := service.NewStatsService(logger, statsRepo)
	gameManager := usecase.NewGameManager(logger, botService, statsService, conf.Bot.ThinkDelay())

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newStatsRepository - redis-backed store when enabled, otherwise the
// in-process one (scores then start fresh each run).
func newStatsRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.StatsRepository, func(), error) {
	if !conf.Redis.Enabled {
		return repository.NewMemoryStatsRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			logger.Error("could not close redis storage", "error", closeErr)
		}
	}

	return repository.NewStatsRepository(redisStorage.Connection), closeStorage, nil
}
