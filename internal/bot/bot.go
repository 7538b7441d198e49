package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/chat-stats-bot/internal/ingest"
	"github.com/chat-stats-bot/internal/models"
	"github.com/chat-stats-bot/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Update kinds the bot subscribes to
var allowedUpdates = []string{"message", "callback_query", "my_chat_member"}

// Bot represents the Telegram bot
type Bot struct {
	api            *tgbotapi.BotAPI
	config         *models.BotConfig
	ingest         *ingest.Adapter
	sessions       *session.Manager
	webhookUpdates chan tgbotapi.Update
	webhookSecret  string // last path segment Telegram posts to
	logger         zerolog.Logger
}

// New creates a new bot instance. The bot itself answers administrator
// lookups for the session manager.
func New(
	config *models.BotConfig,
	adapter *ingest.Adapter,
	stats session.Stats,
	names session.Names,
	logger zerolog.Logger,
) (*Bot, error) {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", config.Timezone, err)
	}

	// Create Telegram bot API client
	api, err := tgbotapi.NewBotAPI(config.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// Set debug mode based on log level
	api.Debug = config.LogLevel == "debug"

	logger.Info().
		Str("username", api.Self.UserName).
		Int64("id", api.Self.ID).
		Msg("Telegram bot authorized")

	b := &Bot{
		api:    api,
		config: config,
		ingest: adapter,
		logger: logger.With().Str("component", "bot").Logger(),
	}
	b.sessions = session.NewManager(stats, names, b, loc, logger)
	if config.UseWebhook() {
		b.webhookUpdates = make(chan tgbotapi.Update, api.Buffer)
		b.webhookSecret = uuid.NewString()
	}

	return b, nil
}

// Start receives updates until ctx is cancelled, then waits for active handlers
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().
		Bool("webhook", b.config.UseWebhook()).
		Msg("Starting bot...")

	updates, err := b.updatesChannel()
	if err != nil {
		return err
	}

	b.logger.Info().Msg("Bot started, waiting for messages...")

	dispatcher := newDispatcher(dispatchWorkers, func(upd tgbotapi.Update) {
		b.handleUpdate(ctx, upd)
	})

	// Process updates
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Shutting down bot...")
			if !b.config.UseWebhook() {
				b.api.StopReceivingUpdates()
			}

			// Wait for all active handlers to complete
			b.logger.Info().Msg("Waiting for active handlers to complete...")
			dispatcher.Close()
			b.logger.Info().Msg("All handlers completed")

			return nil

		case update, ok := <-updates:
			if !ok {
				dispatcher.Close()
				return fmt.Errorf("telegram updates channel closed")
			}
			dispatcher.Dispatch(update)
		}
	}
}

// updatesChannel registers the delivery mode with Telegram and returns the update stream
func (b *Bot) updatesChannel() (tgbotapi.UpdatesChannel, error) {
	if !b.config.UseWebhook() {
		// getUpdates is rejected while a webhook is registered
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return nil, fmt.Errorf("failed to delete webhook: %w", err)
		}

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		u.AllowedUpdates = allowedUpdates
		return b.api.GetUpdatesChan(u), nil
	}

	endpoint, _, err := b.webhookEndpoint()
	if err != nil {
		return nil, err
	}

	wh, err := tgbotapi.NewWebhook(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	wh.DropPendingUpdates = true
	wh.AllowedUpdates = allowedUpdates

	if _, err := b.api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	b.logger.Info().
		Str("url", b.config.WebhookURL).
		Msg("Webhook set")

	return b.webhookUpdates, nil
}

// GetUsername returns bot username
func (b *Bot) GetUsername() string {
	return b.api.Self.UserName
}

// IsAdministrator reports whether the user is an administrator or the creator of the chat
func (b *Bot) IsAdministrator(ctx context.Context, chatID, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member: %w", err)
	}

	return member.IsCreator() || member.IsAdministrator(), nil
}
