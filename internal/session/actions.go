package session

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates the buttons an operator can press
type ActionKind int

const (
	ActionSelectChat ActionKind = iota + 1
	ActionInfo
	ActionToday
	ActionPeriod
	ActionSearchWord
	ActionSearchTag
	ActionChangeChat
)

// Callback payload prefixes
var actionNames = map[ActionKind]string{
	ActionSelectChat: "select",
	ActionInfo:       "info",
	ActionToday:      "today",
	ActionPeriod:     "period",
	ActionSearchWord: "search_word",
	ActionSearchTag:  "search_tag",
	ActionChangeChat: "change_chat",
}

var actionsByName = func() map[string]ActionKind {
	m := make(map[string]ActionKind, len(actionNames))
	for kind, name := range actionNames {
		m[name] = kind
	}
	return m
}()

// String returns string representation of ActionKind
func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is a decoded operator button press
type Action struct {
	Kind   ActionKind
	ChatID int64 // zero for ActionChangeChat
}

// Payload encodes the action as callback data, the inverse of ParseAction
func (a Action) Payload() string {
	if a.Kind == ActionChangeChat {
		return actionNames[ActionChangeChat]
	}
	return actionNames[a.Kind] + ":" + strconv.FormatInt(a.ChatID, 10)
}

// ParseAction decodes callback data such as "info:-100123" or "change_chat"
func ParseAction(payload string) (Action, error) {
	name, arg, hasArg := strings.Cut(payload, ":")

	kind, ok := actionsByName[name]
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, payload)
	}

	if kind == ActionChangeChat {
		if hasArg {
			return Action{}, fmt.Errorf("%w: %q takes no argument", ErrUnknownAction, payload)
		}
		return Action{Kind: kind}, nil
	}

	if !hasArg {
		return Action{}, fmt.Errorf("%w: %q is missing chat id", ErrUnknownAction, payload)
	}
	chatID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || chatID == 0 {
		return Action{}, fmt.Errorf("%w: %q has invalid chat id", ErrUnknownAction, payload)
	}

	return Action{Kind: kind, ChatID: chatID}, nil
}

// mode returns the query mode a menu action starts
func (k ActionKind) mode() Mode {
	switch k {
	case ActionInfo:
		return ModeInfo
	case ActionToday:
		return ModeToday
	case ActionPeriod:
		return ModePeriodTotals
	case ActionSearchWord:
		return ModeWordCount
	case ActionSearchTag:
		return ModeTagCount
	default:
		return ModeNone
	}
}
