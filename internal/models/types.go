package models

import "time"

// ChatKind represents the type of Telegram chat a message came from
type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
)

// IsGroup reports whether activity in this kind of chat is tracked
func (k ChatKind) IsGroup() bool {
	return k == ChatGroup || k == ChatSupergroup
}

// InboundMessage is a transport-neutral message event from a chat
type InboundMessage struct {
	ChatID          int64
	ChatTitle       string
	ChatKind        ChatKind
	UserID          int64
	UserDisplayName string
	IsBot           bool
	Timestamp       time.Time
	Text            *string // nil for messages without text (stickers, photos, ...)
}

// MembershipStatus is the bot's own status in a chat after a change
type MembershipStatus string

const (
	MembershipJoined MembershipStatus = "joined"
	MembershipLeft   MembershipStatus = "left"
)

// MembershipChange announces that the bot joined or left a chat
type MembershipChange struct {
	ChatID    int64
	ChatTitle string
	Status    MembershipStatus
}

// BotConfig represents bot configuration
type BotConfig struct {
	// Telegram settings
	TelegramToken     string
	WebhookURL        string // empty means long polling
	WebhookListenAddr string

	// App settings
	Timezone        string
	LogLevel        string
	Environment     string
	ShutdownTimeout int

	// Text archive retention
	TextRetentionDays int
	RetentionCron     string
}

// UseWebhook reports whether updates are delivered through a webhook
func (c *BotConfig) UseWebhook() bool {
	return c.WebhookURL != ""
}
