package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		payload string
		want    Action
	}{
		{"select:-1001234", Action{Kind: ActionSelectChat, ChatID: -1001234}},
		{"info:42", Action{Kind: ActionInfo, ChatID: 42}},
		{"today:-5", Action{Kind: ActionToday, ChatID: -5}},
		{"period:-5", Action{Kind: ActionPeriod, ChatID: -5}},
		{"search_word:-5", Action{Kind: ActionSearchWord, ChatID: -5}},
		{"search_tag:-5", Action{Kind: ActionSearchTag, ChatID: -5}},
		{"change_chat", Action{Kind: ActionChangeChat}},
	}

	for _, tt := range tests {
		got, err := ParseAction(tt.payload)
		require.NoError(t, err, tt.payload)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.payload, got.Payload())
	}
}

func TestParseAction_Rejects(t *testing.T) {
	for _, payload := range []string{
		"",
		"unknown:1",
		"info",
		"info:",
		"info:abc",
		"info:0",
		"info:1:2",
		"change_chat:1",
	} {
		_, err := ParseAction(payload)
		assert.ErrorIs(t, err, ErrUnknownAction, "payload %q", payload)
	}
}
