package bot

import (
	"testing"
	"time"

	"github.com/chat-stats-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		Date: int(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Unix()),
		Chat: &tgbotapi.Chat{ID: -100, Type: "supergroup", Title: "Team"},
		From: &tgbotapi.User{ID: 7, FirstName: "Alice", LastName: "Smith"},
	}
}

func TestToInboundMessage(t *testing.T) {
	msg := groupMessage()
	msg.Text = "Hello #Go"

	in := toInboundMessage(msg)
	assert.Equal(t, int64(-100), in.ChatID)
	assert.Equal(t, "Team", in.ChatTitle)
	assert.Equal(t, models.ChatSupergroup, in.ChatKind)
	assert.Equal(t, int64(7), in.UserID)
	assert.Equal(t, "Alice Smith", in.UserDisplayName)
	assert.False(t, in.IsBot)
	assert.True(t, in.Timestamp.Equal(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
	require.NotNil(t, in.Text)
	assert.Equal(t, "Hello #Go", *in.Text)
}

func TestToInboundMessage_CaptionAndMedia(t *testing.T) {
	msg := groupMessage()
	msg.Caption = "photo caption"
	in := toInboundMessage(msg)
	require.NotNil(t, in.Text)
	assert.Equal(t, "photo caption", *in.Text)

	sticker := groupMessage()
	assert.Nil(t, toInboundMessage(sticker).Text)
}

func TestToMembershipChange(t *testing.T) {
	update := &tgbotapi.ChatMemberUpdated{
		Chat:          tgbotapi.Chat{ID: -100, Type: "group", Title: "Team"},
		NewChatMember: tgbotapi.ChatMember{Status: "member"},
	}

	change, ok := toMembershipChange(update)
	require.True(t, ok)
	assert.Equal(t, models.MembershipJoined, change.Status)
	assert.Equal(t, "Team", change.ChatTitle)

	update.NewChatMember.Status = "kicked"
	change, ok = toMembershipChange(update)
	require.True(t, ok)
	assert.Equal(t, models.MembershipLeft, change.Status)

	update.NewChatMember.Status = "left"
	change, _ = toMembershipChange(update)
	assert.Equal(t, models.MembershipLeft, change.Status)

	update.Chat.Type = "private"
	_, ok = toMembershipChange(update)
	assert.False(t, ok)
}

func TestTitleChange(t *testing.T) {
	msg := groupMessage()
	_, ok := titleChange(msg)
	assert.False(t, ok)

	msg.NewChatTitle = "Renamed"
	change, ok := titleChange(msg)
	require.True(t, ok)
	assert.Equal(t, "Renamed", change.ChatTitle)
	assert.Equal(t, models.MembershipJoined, change.Status)
}

func TestIsServiceMessage(t *testing.T) {
	plain := groupMessage()
	plain.Text = "hi"
	assert.False(t, isServiceMessage(plain))

	joined := groupMessage()
	joined.NewChatMembers = []tgbotapi.User{{ID: 9}}
	assert.True(t, isServiceMessage(joined))

	pinned := groupMessage()
	pinned.PinnedMessage = &tgbotapi.Message{}
	assert.True(t, isServiceMessage(pinned))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", displayName(&tgbotapi.User{ID: 1, FirstName: "Alice"}))
	assert.Equal(t, "@bob", displayName(&tgbotapi.User{ID: 2, UserName: "bob"}))
	assert.Equal(t, "User3", displayName(&tgbotapi.User{ID: 3}))
}
