package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akorchagin/roomchat-server/internal/app"
	"github.com/akorchagin/roomchat-server/internal/config"
	"github.com/akorchagin/roomchat-server/internal/log"
)

func main() {
	var (
		configPath       string
		addr             string
		databasePath     string
		logLevel         string
		shutdownTimeout  time.Duration
		readHeaderLimit  time.Duration
		messageRateLimit int
	)

	root := &cobra.Command{
		Use:          "roomchat-server",
		Short:        "Room-based chat server with durable message history",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(logLevel)

			cfg, cfgPath, err := config.Load(logger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.UpdateFrom(config.Config{
				Addr:              addr,
				DatabasePath:      databasePath,
				LogLevel:          logLevel,
				ShutdownTimeout:   shutdownTimeout,
				ReadHeaderTimeout: readHeaderLimit,
				MessageRateLimit:  messageRateLimit,
			})

			logger = log.New(cfg.LogLevel)
			logger.Info().Str("config", cfgPath).Str("addr", cfg.Addr).Msg("starting roomchat server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	root.Flags().StringVar(&databasePath, "db", "", "path to SQLite database file")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	root.Flags().DurationVar(&readHeaderLimit, "read-header-timeout", 0, "HTTP read header timeout")
	root.Flags().IntVar(&messageRateLimit, "message-rate-limit", 0, "per-connection inbound frames per minute (0 = off)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
