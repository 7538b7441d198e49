package session

import "github.com/chat-stats-bot/internal/models"

// OutcomeKind tells the presentation layer what to render
type OutcomeKind int

const (
	OutcomeChatList OutcomeKind = iota + 1
	OutcomeChatMenu
	OutcomeSummary
	OutcomeRanking
	OutcomePromptPeriod
	OutcomePromptValue
)

// Outcome is the result of one wizard step
type Outcome struct {
	Kind OutcomeKind
	Mode Mode
	Chat models.ChatRef

	// OutcomeChatList
	Chats []models.ChatRef

	// OutcomeSummary
	Summary models.ChatSummary

	// OutcomeRanking; Query and Total are set for word and tag searches
	Period  models.Period
	Query   string
	Ranking []models.RankedUser
	Total   int
}

// Empty reports whether a ranking outcome has no data
func (o Outcome) Empty() bool {
	return o.Kind == OutcomeRanking && len(o.Ranking) == 0
}
