package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/chat-stats-bot/internal/models"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.BotConfig, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	config := &models.BotConfig{
		// Telegram settings
		TelegramToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		WebhookListenAddr: getEnv("WEBHOOK_LISTEN_ADDR", ":8080"),

		// App settings
		Timezone:        getEnv("TIMEZONE", "UTC"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Environment:     getEnv("ENVIRONMENT", "production"),
		ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 10),

		// Text archive retention
		TextRetentionDays: getEnvInt("TEXT_RETENTION_DAYS", 0),
		RetentionCron:     getEnv("RETENTION_CRON", "0 3 * * *"),
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks if all required configuration values are set
func validate(cfg *models.BotConfig) error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", cfg.Timezone, err)
	}

	if cfg.WebhookURL != "" {
		u, err := url.Parse(cfg.WebhookURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("WEBHOOK_URL must be an absolute https URL, got %q", cfg.WebhookURL)
		}
		if cfg.WebhookListenAddr == "" {
			return fmt.Errorf("WEBHOOK_LISTEN_ADDR is required when WEBHOOK_URL is set")
		}
	}

	// Validate numeric values
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %d", cfg.ShutdownTimeout)
	}
	if cfg.TextRetentionDays < 0 {
		return fmt.Errorf("TEXT_RETENTION_DAYS must not be negative, got %d", cfg.TextRetentionDays)
	}

	if cfg.TextRetentionDays > 0 {
		if _, err := cron.ParseStandard(cfg.RetentionCron); err != nil {
			return fmt.Errorf("RETENTION_CRON %q is invalid: %w", cfg.RetentionCron, err)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
