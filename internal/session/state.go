package session

import "github.com/chat-stats-bot/internal/models"

// Mode is the kind of query an operator is building
type Mode int

const (
	ModeNone Mode = iota
	ModeInfo
	ModeToday
	ModePeriodTotals
	ModeWordCount
	ModeTagCount
)

// String returns string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeInfo:
		return "info"
	case ModeToday:
		return "today"
	case ModePeriodTotals:
		return "period_totals"
	case ModeWordCount:
		return "word_count"
	case ModeTagCount:
		return "tag_count"
	default:
		return "none"
	}
}

// Step is the wizard position; it decides what the next free-text message means
type Step int

const (
	StepIdle Step = iota
	StepAwaitPeriod
	StepAwaitValue
)

// String returns string representation of Step
func (s Step) String() string {
	switch s {
	case StepAwaitPeriod:
		return "await_period"
	case StepAwaitValue:
		return "await_value"
	default:
		return "idle"
	}
}

// State is the coarse wizard state derived from a Session
type State int

const (
	StateNoChatSelected State = iota
	StateChatMenu
	StateAwaitingPeriod
	StateAwaitingValue
)

// String returns string representation of State
func (s State) String() string {
	switch s {
	case StateChatMenu:
		return "chat_menu"
	case StateAwaitingPeriod:
		return "awaiting_period"
	case StateAwaitingValue:
		return "awaiting_value"
	default:
		return "no_chat_selected"
	}
}

// Session is one operator's wizard state.
// A session with Step != StepIdle always has a chat and a mode.
type Session struct {
	ChatID       int64
	ChatSelected bool
	Mode         Mode
	Step         Step
	Period       *models.Period
}

// State derives the wizard state
func (s Session) State() State {
	switch {
	case !s.ChatSelected:
		return StateNoChatSelected
	case s.Step == StepAwaitPeriod:
		return StateAwaitingPeriod
	case s.Step == StepAwaitValue:
		return StateAwaitingValue
	default:
		return StateChatMenu
	}
}

// menu returns the session parked on the chat menu of its selected chat
func (s Session) menu() Session {
	return Session{ChatID: s.ChatID, ChatSelected: s.ChatSelected}
}

// clone copies the session so callers cannot alias the stored period
func (s Session) clone() Session {
	if s.Period != nil {
		p := *s.Period
		s.Period = &p
	}
	return s
}
