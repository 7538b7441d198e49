package analytics

import (
	"sort"

	"github.com/chat-stats-bot/internal/models"
)

// PruneTexts drops archived texts of days strictly before cutoff.
// Message counters are kept, so counts and summaries do not change.
// Returns the number of texts removed.
func (s *Store) PruneTexts(cutoff models.Date) int {
	s.mu.RLock()
	chats := make([]*chatActivity, 0, len(s.chats))
	for _, c := range s.chats {
		chats = append(chats, c)
	}
	s.mu.RUnlock()

	removed := 0
	for _, c := range chats {
		c.mu.Lock()
		for date, texts := range c.texts {
			if date < cutoff {
				removed += len(texts)
				delete(c.texts, date)
			}
		}
		c.mu.Unlock()
	}

	s.logger.Info().
		Str("cutoff", cutoff.String()).
		Int("chats", len(chats)).
		Int("removed_texts", removed).
		Msg("Pruned archived texts")

	return removed
}

func sortDates(days []models.Date) {
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
}
