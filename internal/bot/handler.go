package bot

import (
	"context"
	"errors"

	"github.com/chat-stats-bot/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// handleUpdate processes incoming update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := b.logger.With().
		Int("update_id", update.UpdateID).
		Str("request_id", uuid.NewString()).
		Logger()
	ctx = logger.WithContext(ctx)

	// Wrap in recover middleware
	b.recoverMiddleware(logger, func() {
		switch {
		case update.MyChatMember != nil:
			b.handleMembership(ctx, update.MyChatMember)
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		}
	})
}

// handleMessage routes private messages to the wizard and records group activity
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.Chat.IsPrivate() {
		b.handlePrivateMessage(ctx, message)
		return
	}

	if message.NewChatTitle != "" {
		if change, ok := titleChange(message); ok {
			b.ingest.HandleMembership(change)
		}
		return
	}
	if isServiceMessage(message) {
		return
	}

	if b.ingest.HandleMessage(toInboundMessage(message)) {
		zerolog.Ctx(ctx).Debug().
			Int64("chat_id", message.Chat.ID).
			Int64("user_id", message.From.ID).
			Msg("Group message recorded")
	}
}

// handlePrivateMessage handles commands and wizard input from an operator
func (b *Bot) handlePrivateMessage(ctx context.Context, message *tgbotapi.Message) {
	logger := zerolog.Ctx(ctx)
	operatorID := message.From.ID
	chatID := message.Chat.ID

	if message.IsCommand() {
		command := message.Command()

		logger.Info().
			Str("command", command).
			Int64("user_id", operatorID).
			Str("username", message.From.UserName).
			Msg("Received command")

		switch command {
		case "start":
			b.sendOutcome(ctx, chatID, b.sessions.Start(operatorID))
		case "help":
			b.sendMessage(chatID, helpText, nil)
		default:
			b.sendMessage(chatID, unknownCommandText, nil)
		}
		return
	}

	if message.Text == "" {
		return
	}

	outcome, err := b.sessions.HandleText(ctx, operatorID, message.Text)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}
	b.sendOutcome(ctx, chatID, outcome)
}

// handleCallback handles inline keyboard presses
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	logger := zerolog.Ctx(ctx)

	// Stop the client-side spinner regardless of the outcome
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn().Err(err).Msg("Failed to answer callback query")
	}

	chatID, ok := operatorChat(query)
	if !ok {
		logger.Debug().
			Str("data", query.Data).
			Msg("Ignoring callback outside operator's private chat")
		return
	}

	action, err := session.ParseAction(query.Data)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("data", query.Data).
			Msg("Rejected callback payload")
		b.sendError(ctx, chatID, err)
		return
	}

	outcome, err := b.sessions.HandleAction(ctx, query.From.ID, action)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}
	b.sendOutcome(ctx, chatID, outcome)
}

// operatorChat returns the private chat a callback was pressed in. Replies are
// only sent there when it is the sender's own chat with the bot.
func operatorChat(query *tgbotapi.CallbackQuery) (int64, bool) {
	if query.From == nil || query.Message == nil || query.Message.Chat == nil {
		return 0, false
	}
	chat := query.Message.Chat
	if !chat.IsPrivate() || chat.ID != query.From.ID {
		return 0, false
	}
	return chat.ID, true
}

// handleMembership tracks the chats the bot is a member of
func (b *Bot) handleMembership(ctx context.Context, update *tgbotapi.ChatMemberUpdated) {
	change, ok := toMembershipChange(update)
	if !ok {
		return
	}

	zerolog.Ctx(ctx).Info().
		Int64("chat_id", change.ChatID).
		Str("title", change.ChatTitle).
		Str("status", string(change.Status)).
		Msg("Bot membership changed")

	b.ingest.HandleMembership(change)
}

// sendOutcome renders a wizard outcome
func (b *Bot) sendOutcome(ctx context.Context, chatID int64, outcome session.Outcome) {
	text, markup := renderOutcome(outcome)
	if err := b.sendMessage(chatID, text, markup); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Int("outcome", int(outcome.Kind)).
			Msg("Failed to deliver outcome")
	}
}

// sendError renders a wizard failure; unexpected errors are logged
func (b *Bot) sendError(ctx context.Context, chatID int64, err error) {
	if !isUserError(err) {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Wizard step failed")
	}
	b.sendErrorMessage(chatID, errorText(err))
}

// isUserError reports whether err is an expected operator mistake
func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
