package analytics

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/chat-stats-bot/internal/models"
	"github.com/rs/zerolog"
)

// ErrInvalidRange is returned when a period starts after it ends
var ErrInvalidRange = errors.New("start date is after end date")

// Store accumulates per-chat message counters and text archives
type Store struct {
	mu     sync.RWMutex // guards chats map only
	chats  map[int64]*chatActivity
	logger zerolog.Logger
}

// chatActivity holds everything recorded for one chat.
// Ingest takes mu for writing, queries for reading.
type chatActivity struct {
	mu    sync.RWMutex
	title string
	daily map[models.Date]*dayCounts
	texts map[models.Date][]models.ArchivedText
}

// dayCounts keeps per-user counters and the order users first appeared in
type dayCounts struct {
	counts map[int64]int
	order  []int64
}

func (d *dayCounts) inc(userID int64) {
	if _, ok := d.counts[userID]; !ok {
		d.order = append(d.order, userID)
	}
	d.counts[userID]++
}

// NewStore creates an empty analytics store
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		chats:  make(map[int64]*chatActivity),
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// chat returns the activity entry for chatID, or nil when nothing was recorded
func (s *Store) chat(chatID int64) *chatActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats[chatID]
}

// chatOrCreate returns the activity entry for chatID, creating it if needed
func (s *Store) chatOrCreate(chatID int64) *chatActivity {
	if c := s.chat(chatID); c != nil {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.chats[chatID]; ok {
		return c
	}
	c := &chatActivity{
		daily: make(map[models.Date]*dayCounts),
		texts: make(map[models.Date][]models.ArchivedText),
	}
	s.chats[chatID] = c

	s.logger.Info().
		Int64("chat_id", chatID).
		Msg("Started tracking chat")

	return c
}

// Ingest records one message event. Every call counts, there is no deduplication.
// text is nil for messages without text; an empty string is archived as is.
func (s *Store) Ingest(chatID int64, title string, userID int64, date models.Date, text *string) {
	c := s.chatOrCreate(chatID)

	c.mu.Lock()
	c.title = title
	day, ok := c.daily[date]
	if !ok {
		day = &dayCounts{counts: make(map[int64]int)}
		c.daily[date] = day
	}
	day.inc(userID)
	if text != nil {
		c.texts[date] = append(c.texts[date], models.ArchivedText{
			UserID: userID,
			Text:   strings.ToLower(*text),
		})
	}
	count := day.counts[userID]
	c.mu.Unlock()

	s.logger.Debug().
		Int64("chat_id", chatID).
		Int64("user_id", userID).
		Str("date", date.String()).
		Int("day_count", count).
		Bool("has_text", text != nil).
		Msg("Message ingested")
}

// Title returns the last title seen for a chat
func (s *Store) Title(chatID int64) string {
	c := s.chat(chatID)
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.title
}

// Chats returns the ids of all chats with recorded activity
func (s *Store) Chats() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// counter sums counts per user and remembers first-seen order for stable ranking
type counter struct {
	counts map[int64]int
	order  []int64
}

func newCounter() *counter {
	return &counter{counts: make(map[int64]int)}
}

func (c *counter) add(userID int64, n int) {
	if _, ok := c.counts[userID]; !ok {
		c.order = append(c.order, userID)
	}
	c.counts[userID] += n
}

// ranked returns users sorted by count descending, ties in first-seen order
func (c *counter) ranked() []models.UserCount {
	result := make([]models.UserCount, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, models.UserCount{UserID: id, Count: c.counts[id]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

func (c *counter) total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}
