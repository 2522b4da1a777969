package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/concurmeet/concurmeet/internal/app"
	"github.com/concurmeet/concurmeet/internal/config"
	"github.com/concurmeet/concurmeet/internal/log"
)

func main() {
	var configPath string
	overrides := config.Default()

	root := &cobra.Command{
		Use:           "concurmeet-server",
		Short:         "Multi-room line-oriented chat relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, configPath, overrides)
		},
	}

	flags := root.Flags()
	flags.StringVar(&configPath, "config", "", "path to config file")
	flags.StringVar(&overrides.TCPAddr, "tcp-addr", overrides.TCPAddr, "TCP listen address")
	flags.StringVar(&overrides.HTTPAddr, "http-addr", overrides.HTTPAddr, "HTTP listen address")
	flags.StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&overrides.HistoryBackend, "history-backend", overrides.HistoryBackend, "history backend (file, sqlite, none)")
	flags.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", overrides.ShutdownTimeout, "graceful shutdown timeout")

	if err := root.Execute(); err != nil {
		bootLogger := log.New("info")
		bootLogger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, configPath string, overrides config.Config) error {
	bootLogger := log.New("info")

	cfg, resolvedPath, err := config.Load(bootLogger, configPath)
	if err != nil {
		return err
	}

	// Flags set on the command line win over the config file.
	applyOverride(cmd, "tcp-addr", &cfg.TCPAddr, overrides.TCPAddr)
	applyOverride(cmd, "http-addr", &cfg.HTTPAddr, overrides.HTTPAddr)
	applyOverride(cmd, "log-level", &cfg.LogLevel, overrides.LogLevel)
	applyOverride(cmd, "history-backend", &cfg.HistoryBackend, overrides.HistoryBackend)
	if cmd.Flags().Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = overrides.ShutdownTimeout
	}

	logger := log.New(cfg.LogLevel)
	logger.Info().
		Str("config", resolvedPath).
		Str("tcp_addr", cfg.TCPAddr).
		Str("http_addr", cfg.HTTPAddr).
		Msg("starting concurmeet server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := application.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func applyOverride(cmd *cobra.Command, flag string, dst *string, value string) {
	if cmd.Flags().Changed(flag) {
		*dst = value
	}
}
