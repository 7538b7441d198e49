package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chat-stats-bot/internal/analytics"
	"github.com/chat-stats-bot/internal/models"
	"github.com/chat-stats-bot/internal/textnorm"
	"github.com/rs/zerolog"
)

// Stats is the read side of the analytics store
type Stats interface {
	ChatSummary(chatID int64) models.ChatSummary
	DayCounts(chatID int64, date models.Date) []models.UserCount
	PeriodTotals(chatID int64, period models.Period) ([]models.UserCount, error)
	WordFrequency(chatID int64, period models.Period, filter models.WordFilter) (models.WordFrequency, error)
}

// Names resolves users and chats
type Names interface {
	DisplayName(userID int64) string
	ChatTitle(chatID int64) string
	HasChat(chatID int64) bool
	Chats() []models.ChatRef
}

// Authorizer checks whether a user administers a chat
type Authorizer interface {
	IsAdministrator(ctx context.Context, chatID, userID int64) (bool, error)
}

// Manager drives one wizard session per operator
type Manager struct {
	stats  Stats
	names  Names
	auth   Authorizer
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex // guards sessions map
	sessions map[int64]*operatorSession
}

// operatorSession serializes transitions of one operator
type operatorSession struct {
	mu      sync.Mutex
	session Session
}

// NewManager creates a session manager. Dates are evaluated in loc.
func NewManager(stats Stats, names Names, auth Authorizer, loc *time.Location, logger zerolog.Logger) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{
		stats:    stats,
		names:    names,
		auth:     auth,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With().Str("component", "session").Logger(),
		sessions: make(map[int64]*operatorSession),
	}
}

func (m *Manager) operator(operatorID int64) *operatorSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	op, ok := m.sessions[operatorID]
	if !ok {
		op = &operatorSession{}
		m.sessions[operatorID] = op
	}
	return op
}

// Snapshot returns a copy of the operator's current session
func (m *Manager) Snapshot(operatorID int64) Session {
	op := m.operator(operatorID)
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.session.clone()
}

// Start resets the operator's session and offers the list of known chats
func (m *Manager) Start(operatorID int64) Outcome {
	op := m.operator(operatorID)
	op.mu.Lock()
	defer op.mu.Unlock()

	op.session = Session{}

	m.logger.Debug().
		Int64("operator_id", operatorID).
		Msg("Session started")

	return Outcome{Kind: OutcomeChatList, Chats: m.names.Chats()}
}

// HandleAction applies a button press to the operator's session
func (m *Manager) HandleAction(ctx context.Context, operatorID int64, action Action) (Outcome, error) {
	op := m.operator(operatorID)
	op.mu.Lock()
	defer op.mu.Unlock()

	logger := m.logger.With().
		Int64("operator_id", operatorID).
		Str("action", action.Kind.String()).
		Int64("chat_id", action.ChatID).
		Str("state", op.session.State().String()).
		Logger()
	logger.Debug().Msg("Handling action")

	switch action.Kind {
	case ActionChangeChat:
		op.session = Session{}
		return Outcome{Kind: OutcomeChatList, Chats: m.names.Chats()}, nil

	case ActionSelectChat:
		next, err := m.selectChat(ctx, operatorID, action.ChatID)
		if err != nil {
			return Outcome{}, err
		}
		op.session = next
		return Outcome{Kind: OutcomeChatMenu, Chat: m.chatRef(action.ChatID)}, nil

	case ActionInfo, ActionToday, ActionPeriod, ActionSearchWord, ActionSearchTag:
		return m.handleMenu(ctx, operatorID, op, action)

	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind)
	}
}

// handleMenu runs a chat-menu action. Menu buttons carry their chat id, so a
// press for a chat other than the selected one selects that chat first.
func (m *Manager) handleMenu(ctx context.Context, operatorID int64, op *operatorSession, action Action) (Outcome, error) {
	current := op.session
	if !current.ChatSelected || current.ChatID != action.ChatID {
		selected, err := m.selectChat(ctx, operatorID, action.ChatID)
		if err != nil {
			return Outcome{}, err
		}
		current = selected
	} else if err := m.authorize(ctx, operatorID, action.ChatID); err != nil {
		return Outcome{}, err
	}

	// each menu press starts an independent request
	current = current.menu()
	chat := m.chatRef(current.ChatID)

	switch action.Kind {
	case ActionInfo:
		op.session = current
		return Outcome{
			Kind:    OutcomeSummary,
			Mode:    ModeInfo,
			Chat:    chat,
			Summary: m.stats.ChatSummary(current.ChatID),
		}, nil

	case ActionToday:
		today := models.DateOf(m.now(), m.loc)
		op.session = current
		return Outcome{
			Kind:    OutcomeRanking,
			Mode:    ModeToday,
			Chat:    chat,
			Period:  models.Period{Start: today, End: today},
			Ranking: m.rank(m.stats.DayCounts(current.ChatID, today)),
		}, nil

	default:
		current.Mode = action.Kind.mode()
		current.Step = StepAwaitPeriod
		op.session = current

		m.logger.Debug().
			Int64("operator_id", operatorID).
			Int64("chat_id", current.ChatID).
			Str("mode", current.Mode.String()).
			Msg("Awaiting period")

		return Outcome{Kind: OutcomePromptPeriod, Mode: current.Mode, Chat: chat}, nil
	}
}

// HandleText feeds free-text input to the wizard step waiting for it
func (m *Manager) HandleText(ctx context.Context, operatorID int64, text string) (Outcome, error) {
	op := m.operator(operatorID)
	op.mu.Lock()
	defer op.mu.Unlock()

	current := op.session

	m.logger.Debug().
		Int64("operator_id", operatorID).
		Str("state", current.State().String()).
		Str("mode", current.Mode.String()).
		Msg("Handling text input")

	switch current.State() {
	case StateAwaitingPeriod:
		return m.handlePeriod(ctx, operatorID, op, text)
	case StateAwaitingValue:
		return m.handleValue(ctx, operatorID, op, text)
	default:
		return Outcome{}, ErrNoPendingInput
	}
}

func (m *Manager) handlePeriod(ctx context.Context, operatorID int64, op *operatorSession, text string) (Outcome, error) {
	current := op.session

	period, err := ParsePeriod(text)
	if err != nil {
		return Outcome{}, err
	}
	if !period.Valid() {
		return Outcome{}, fmt.Errorf("period %s: %w", text, analytics.ErrInvalidRange)
	}

	if current.Mode != ModePeriodTotals {
		current.Period = &period
		current.Step = StepAwaitValue
		op.session = current
		return Outcome{Kind: OutcomePromptValue, Mode: current.Mode, Chat: m.chatRef(current.ChatID), Period: period}, nil
	}

	if err := m.authorize(ctx, operatorID, current.ChatID); err != nil {
		return Outcome{}, err
	}
	totals, err := m.stats.PeriodTotals(current.ChatID, period)
	if err != nil {
		return Outcome{}, err
	}

	op.session = current.menu()
	return Outcome{
		Kind:    OutcomeRanking,
		Mode:    ModePeriodTotals,
		Chat:    m.chatRef(current.ChatID),
		Period:  period,
		Ranking: m.rank(totals),
	}, nil
}

func (m *Manager) handleValue(ctx context.Context, operatorID int64, op *operatorSession, text string) (Outcome, error) {
	current := op.session
	if current.Period == nil {
		// unreachable through the wizard; recover by asking for the period again
		current.Step = StepAwaitPeriod
		op.session = current
		return Outcome{Kind: OutcomePromptPeriod, Mode: current.Mode, Chat: m.chatRef(current.ChatID)}, nil
	}

	filter, err := parseFilter(current.Mode, text)
	if err != nil {
		return Outcome{}, err
	}

	if err := m.authorize(ctx, operatorID, current.ChatID); err != nil {
		return Outcome{}, err
	}
	freq, err := m.stats.WordFrequency(current.ChatID, *current.Period, filter)
	if err != nil {
		return Outcome{}, err
	}

	op.session = current.menu()
	return Outcome{
		Kind:    OutcomeRanking,
		Mode:    current.Mode,
		Chat:    m.chatRef(current.ChatID),
		Period:  *current.Period,
		Query:   filter.Value,
		Ranking: m.rank(freq.Users),
		Total:   freq.Total,
	}, nil
}

// parseFilter normalizes the searched word or tag
func parseFilter(mode Mode, text string) (models.WordFilter, error) {
	tokens := textnorm.Tokenize(text)

	if mode == ModeTagCount {
		if len(tokens) != 1 {
			return models.WordFilter{}, ErrBadTagFormat
		}
		tag := textnorm.Normalize(tokens[0])
		if !textnorm.IsTag(tag) {
			return models.WordFilter{}, fmt.Errorf("%w: %q", ErrBadTagFormat, tokens[0])
		}
		return models.WordFilter{Kind: models.FilterExactTag, Value: tag}, nil
	}

	if len(tokens) != 1 {
		return models.WordFilter{}, ErrBadWordFormat
	}
	word := textnorm.Normalize(tokens[0])
	if word == "" {
		return models.WordFilter{}, fmt.Errorf("%w: %q", ErrBadWordFormat, tokens[0])
	}
	return models.WordFilter{Kind: models.FilterExactWord, Value: word}, nil
}

// ParsePeriod parses "start end" where both are DD-MM-YYYY (or YYYY-MM-DD)
func ParsePeriod(text string) (models.Period, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return models.Period{}, fmt.Errorf("%w: got %q", ErrBadPeriodFormat, text)
	}

	start, err := models.ParseDate(fields[0])
	if err != nil {
		return models.Period{}, fmt.Errorf("%w: %v", ErrBadPeriodFormat, err)
	}
	end, err := models.ParseDate(fields[1])
	if err != nil {
		return models.Period{}, fmt.Errorf("%w: %v", ErrBadPeriodFormat, err)
	}

	return models.Period{Start: start, End: end}, nil
}

// selectChat authorizes the operator for a chat and returns the resulting session
func (m *Manager) selectChat(ctx context.Context, operatorID, chatID int64) (Session, error) {
	if !m.names.HasChat(chatID) {
		return Session{}, fmt.Errorf("%w: %d", ErrUnknownChat, chatID)
	}
	if err := m.authorize(ctx, operatorID, chatID); err != nil {
		return Session{}, err
	}

	m.logger.Info().
		Int64("operator_id", operatorID).
		Int64("chat_id", chatID).
		Msg("Chat selected")

	return Session{ChatID: chatID, ChatSelected: true}, nil
}

// authorize returns ErrUnauthorized unless the operator administers the chat.
// Lookup failures count as a denial.
func (m *Manager) authorize(ctx context.Context, operatorID, chatID int64) error {
	ok, err := m.auth.IsAdministrator(ctx, chatID, operatorID)
	if err != nil {
		m.logger.Error().
			Err(err).
			Int64("operator_id", operatorID).
			Int64("chat_id", chatID).
			Msg("Administrator lookup failed, denying access")
		return ErrUnauthorized
	}
	if !ok {
		m.logger.Warn().
			Int64("operator_id", operatorID).
			Int64("chat_id", chatID).
			Msg("Access denied")
		return ErrUnauthorized
	}
	return nil
}

func (m *Manager) chatRef(chatID int64) models.ChatRef {
	return models.ChatRef{ID: chatID, Title: m.names.ChatTitle(chatID)}
}

func (m *Manager) rank(counts []models.UserCount) []models.RankedUser {
	ranked := make([]models.RankedUser, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, models.RankedUser{
			UserID: c.UserID,
			Name:   m.names.DisplayName(c.UserID),
			Count:  c.Count,
		})
	}
	return ranked
}
