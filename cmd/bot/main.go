package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chat-stats-bot/internal/analytics"
	"github.com/chat-stats-bot/internal/bot"
	"github.com/chat-stats-bot/internal/config"
	"github.com/chat-stats-bot/internal/directory"
	"github.com/chat-stats-bot/internal/ingest"
	"github.com/chat-stats-bot/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("timezone", cfg.Timezone).
		Bool("webhook", cfg.UseWebhook()).
		Int("text_retention_days", cfg.TextRetentionDays).
		Msg("Starting chat stats bot")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load timezone")
	}

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// In-memory state shared by ingestion and queries
	store := analytics.NewStore(logger)
	names := directory.New(logger)
	adapter := ingest.NewAdapter(store, names, loc, logger)

	// Initialize bot
	logger.Info().Msg("Initializing Telegram bot...")
	telegramBot, err := bot.New(cfg, adapter, store, names, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot")
	}

	logger.Info().
		Str("username", telegramBot.GetUsername()).
		Msg("Bot initialized successfully")

	// Initialize scheduler for text retention
	sched, err := scheduler.NewScheduler(store, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telegramBot.Start(gctx) })
	g.Go(func() error { return telegramBot.ServeWebhook(gctx) })
	g.Go(func() error { return sched.Start(gctx) })

	groupErr := make(chan error, 1)
	go func() {
		groupErr <- g.Wait()
	}()

	logger.Info().Msg("Bot is running. Press Ctrl+C to stop.")

	// Wait for termination signal or component failure
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case <-gctx.Done():
		logger.Error().Msg("A component stopped unexpectedly")
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	// Wait for shutdown or timeout
	select {
	case <-shutdownCtx.Done():
		logger.Warn().Msg("Shutdown timeout exceeded, some updates may be lost")
	case err := <-groupErr:
		if err != nil {
			logger.Error().Err(err).Msg("Bot stopped with error")
		} else {
			logger.Info().Msg("Graceful shutdown completed")
		}
	}

	logger.Info().Msg("Bot stopped")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
