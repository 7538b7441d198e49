package analytics

import (
	"fmt"

	"github.com/chat-stats-bot/internal/models"
	"github.com/chat-stats-bot/internal/textnorm"
)

// ChatSummary returns distinct users and total messages across all days.
// Unknown chats yield zeros.
func (s *Store) ChatSummary(chatID int64) models.ChatSummary {
	c := s.chat(chatID)
	if c == nil {
		return models.ChatSummary{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	users := make(map[int64]struct{})
	total := 0
	for _, day := range c.daily {
		for userID, n := range day.counts {
			users[userID] = struct{}{}
			total += n
		}
	}

	return models.ChatSummary{
		DistinctUsers: len(users),
		TotalMessages: total,
	}
}

// DayCounts returns per-user message counts for one day, highest first
func (s *Store) DayCounts(chatID int64, date models.Date) []models.UserCount {
	c := s.chat(chatID)
	if c == nil {
		return []models.UserCount{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	acc := newCounter()
	if day, ok := c.daily[date]; ok {
		for _, userID := range day.order {
			acc.add(userID, day.counts[userID])
		}
	}
	return acc.ranked()
}

// PeriodTotals sums per-user message counts over the inclusive period
func (s *Store) PeriodTotals(chatID int64, period models.Period) ([]models.UserCount, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("period %s..%s: %w", period.Start, period.End, ErrInvalidRange)
	}

	c := s.chat(chatID)
	if c == nil {
		return []models.UserCount{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	acc := newCounter()
	c.eachDay(period, func(date models.Date) {
		day, ok := c.daily[date]
		if !ok {
			return
		}
		for _, userID := range day.order {
			acc.add(userID, day.counts[userID])
		}
	})
	return acc.ranked(), nil
}

// WordFrequency counts matching tokens per user in archived texts of the period.
// The filter value must already be normalized.
func (s *Store) WordFrequency(chatID int64, period models.Period, filter models.WordFilter) (models.WordFrequency, error) {
	if !period.Valid() {
		return models.WordFrequency{}, fmt.Errorf("period %s..%s: %w", period.Start, period.End, ErrInvalidRange)
	}

	result := models.WordFrequency{Users: []models.UserCount{}}

	c := s.chat(chatID)
	if c == nil {
		return result, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	acc := newCounter()
	c.eachDay(period, func(date models.Date) {
		for _, entry := range c.texts[date] {
			if n := countMatches(entry.Text, filter); n > 0 {
				acc.add(entry.UserID, n)
			}
		}
	})

	result.Users = acc.ranked()
	result.Total = acc.total()
	return result, nil
}

// eachDay calls fn for every date in the period that has data, in calendar order.
// Long periods over sparse chats iterate the recorded days instead of the calendar.
func (c *chatActivity) eachDay(period models.Period, fn func(models.Date)) {
	if period.Days() <= len(c.daily) {
		for d := period.Start; d <= period.End; d++ {
			fn(d)
		}
		return
	}

	days := make([]models.Date, 0, len(c.daily))
	for d := range c.daily {
		if d >= period.Start && d <= period.End {
			days = append(days, d)
		}
	}
	sortDates(days)
	for _, d := range days {
		fn(d)
	}
}

func countMatches(text string, filter models.WordFilter) int {
	n := 0
	for _, token := range textnorm.Tokenize(text) {
		normalized := textnorm.Normalize(token)
		switch filter.Kind {
		case models.FilterNone:
			n++
		case models.FilterExactWord, models.FilterExactTag:
			if normalized == filter.Value {
				n++
			}
		}
	}
	return n
}
