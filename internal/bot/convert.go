package bot

import (
	"fmt"
	"strings"

	"github.com/chat-stats-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// toInboundMessage converts a Telegram group message into an ingest event.
// Captions stand in for text on media messages.
func toInboundMessage(message *tgbotapi.Message) models.InboundMessage {
	var text *string
	switch {
	case message.Text != "":
		t := message.Text
		text = &t
	case message.Caption != "":
		c := message.Caption
		text = &c
	}

	return models.InboundMessage{
		ChatID:          message.Chat.ID,
		ChatTitle:       message.Chat.Title,
		ChatKind:        models.ChatKind(message.Chat.Type),
		UserID:          message.From.ID,
		UserDisplayName: displayName(message.From),
		IsBot:           message.From.IsBot,
		Timestamp:       message.Time(),
		Text:            text,
	}
}

// toMembershipChange converts the bot's own membership update in a group
func toMembershipChange(update *tgbotapi.ChatMemberUpdated) (models.MembershipChange, bool) {
	kind := models.ChatKind(update.Chat.Type)
	if !kind.IsGroup() {
		return models.MembershipChange{}, false
	}

	status := models.MembershipJoined
	if update.NewChatMember.HasLeft() || update.NewChatMember.WasKicked() {
		status = models.MembershipLeft
	}

	return models.MembershipChange{
		ChatID:    update.Chat.ID,
		ChatTitle: update.Chat.Title,
		Status:    status,
	}, true
}

// titleChange turns a "chat renamed" service message into a directory update
func titleChange(message *tgbotapi.Message) (models.MembershipChange, bool) {
	if message.NewChatTitle == "" || !models.ChatKind(message.Chat.Type).IsGroup() {
		return models.MembershipChange{}, false
	}
	return models.MembershipChange{
		ChatID:    message.Chat.ID,
		ChatTitle: message.NewChatTitle,
		Status:    models.MembershipJoined,
	}, true
}

// isServiceMessage reports whether the message is a membership or pin notice rather than user activity
func isServiceMessage(message *tgbotapi.Message) bool {
	return len(message.NewChatMembers) > 0 ||
		message.LeftChatMember != nil ||
		message.NewChatTitle != "" ||
		len(message.NewChatPhoto) > 0 ||
		message.DeleteChatPhoto ||
		message.GroupChatCreated ||
		message.SuperGroupChatCreated ||
		message.PinnedMessage != nil ||
		message.MigrateFromChatID != 0 ||
		message.MigrateToChatID != 0
}

// displayName returns the user's full name, falling back to username and id
func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return fmt.Sprintf("User%d", user.ID)
}
