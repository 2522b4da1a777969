package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/concurmeet/concurmeet/internal/config"
	"github.com/concurmeet/concurmeet/internal/core"
	"github.com/concurmeet/concurmeet/internal/history"
	transporthttp "github.com/concurmeet/concurmeet/internal/transport/http"
	"github.com/concurmeet/concurmeet/internal/transport/tcp"
)

// historyLog is a history backend the app can close on shutdown.
type historyLog interface {
	core.History
	Close() error
}

// App wires together core and transport layers.
type App struct {
	tcpServer       *tcp.Server
	httpServer      *stdhttp.Server
	shutdownTimeout time.Duration
	history         historyLog
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	hist, err := newHistory(cfg)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}
	logger.Info().Str("backend", cfg.HistoryBackend).Msg("history initialized")

	dir := core.NewDirectory()
	engine := core.NewEngine(dir, hist, logger)
	proc := core.NewProcessor(dir, engine)
	lifecycle := core.NewLifecycle(dir, engine, proc, hist, logger)

	return &App{
		tcpServer:       tcp.NewServer(cfg.TCPAddr, lifecycle, logger),
		httpServer:      transporthttp.NewServer(dir, lifecycle, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		history:         hist,
		log:             logger,
	}, nil
}

func newHistory(cfg config.Config) (historyLog, error) {
	switch cfg.HistoryBackend {
	case config.HistoryFile:
		return history.NewFileLog(cfg.HistoryDir)
	case config.HistorySQLite:
		return history.NewSQLiteLog(cfg.HistoryDBPath)
	case config.HistoryNone:
		return history.NopLog{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

// Run starts both transports and blocks until context cancellation or
// a fatal listener error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 2)

	go func() {
		serverErr <- a.tcpServer.Run(ctx)
	}()
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down")
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the history backend.
func (a *App) cleanup() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close history")
	} else {
		a.log.Info().Msg("history closed")
	}
}
