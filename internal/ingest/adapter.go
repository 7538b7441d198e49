package ingest

import (
	"time"

	"github.com/chat-stats-bot/internal/models"
	"github.com/rs/zerolog"
)

// Recorder is the write side of the analytics store
type Recorder interface {
	Ingest(chatID int64, title string, userID int64, date models.Date, text *string)
}

// Registry is the write side of the directory
type Registry interface {
	RecordUser(userID int64, displayName string)
	RecordChat(chatID int64, title string)
	ForgetChat(chatID int64)
}

// Adapter forwards inbound chat events to the store and the directory
type Adapter struct {
	recorder Recorder
	registry Registry
	loc      *time.Location
	logger   zerolog.Logger
}

// NewAdapter creates an ingestion adapter. Message dates are taken in loc.
func NewAdapter(recorder Recorder, registry Registry, loc *time.Location, logger zerolog.Logger) *Adapter {
	if loc == nil {
		loc = time.UTC
	}
	return &Adapter{
		recorder: recorder,
		registry: registry,
		loc:      loc,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// HandleMessage records a group message. Private chats and bots are ignored.
// Returns whether the message was recorded.
func (a *Adapter) HandleMessage(msg models.InboundMessage) bool {
	if !msg.ChatKind.IsGroup() {
		return false
	}
	if msg.IsBot {
		a.logger.Debug().
			Int64("chat_id", msg.ChatID).
			Int64("user_id", msg.UserID).
			Msg("Ignoring bot message")
		return false
	}

	date := models.DateOf(msg.Timestamp, a.loc)

	a.registry.RecordUser(msg.UserID, msg.UserDisplayName)
	a.registry.RecordChat(msg.ChatID, msg.ChatTitle)
	a.recorder.Ingest(msg.ChatID, msg.ChatTitle, msg.UserID, date, msg.Text)

	return true
}

// HandleMembership keeps the chat directory in sync with the bot's memberships
func (a *Adapter) HandleMembership(change models.MembershipChange) {
	switch change.Status {
	case models.MembershipJoined:
		a.registry.RecordChat(change.ChatID, change.ChatTitle)
	case models.MembershipLeft:
		a.registry.ForgetChat(change.ChatID)
	default:
		a.logger.Warn().
			Int64("chat_id", change.ChatID).
			Str("status", string(change.Status)).
			Msg("Unknown membership status")
	}
}
