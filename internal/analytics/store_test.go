package analytics

import (
	"sync"
	"testing"
	"time"

	"github.com/chat-stats-bot/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *string { return &s }

func day(y int, m time.Month, d int) models.Date { return models.NewDate(y, m, d) }

func newTestStore() *Store {
	return NewStore(zerolog.Nop())
}

func TestStore_Scenario(t *testing.T) {
	s := newTestStore()
	d := day(2025, 1, 1)

	s.Ingest(1, "Chat", 7, d, text("Hello #world"))
	s.Ingest(1, "Chat", 7, d, text("hello again"))

	assert.Equal(t, []models.UserCount{{UserID: 7, Count: 2}}, s.DayCounts(1, d))

	period := models.Period{Start: d, End: d}

	words, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterExactWord, Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []models.UserCount{{UserID: 7, Count: 2}}, words.Users)
	assert.Equal(t, 2, words.Total)

	tags, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterExactTag, Value: "#world"})
	require.NoError(t, err)
	assert.Equal(t, []models.UserCount{{UserID: 7, Count: 1}}, tags.Users)
	assert.Equal(t, 1, tags.Total)
}

func TestStore_ChatSummary(t *testing.T) {
	s := newTestStore()

	s.Ingest(1, "Chat", 7, day(2025, 1, 1), text("a"))
	s.Ingest(1, "Chat", 8, day(2025, 1, 1), nil)
	s.Ingest(1, "Chat", 7, day(2025, 1, 2), text(""))
	s.Ingest(1, "Chat", 9, day(2025, 3, 1), text("b"))
	s.Ingest(2, "Other", 7, day(2025, 1, 1), text("c"))

	assert.Equal(t, models.ChatSummary{DistinctUsers: 3, TotalMessages: 4}, s.ChatSummary(1))
	assert.Equal(t, models.ChatSummary{DistinctUsers: 1, TotalMessages: 1}, s.ChatSummary(2))
	assert.Equal(t, models.ChatSummary{}, s.ChatSummary(404))
}

func TestStore_TitleIsLatestWrite(t *testing.T) {
	s := newTestStore()
	s.Ingest(1, "Old", 7, day(2025, 1, 1), nil)
	s.Ingest(1, "New", 7, day(2025, 1, 1), nil)

	assert.Equal(t, "New", s.Title(1))
	assert.Equal(t, "", s.Title(2))
	assert.Equal(t, []int64{1}, s.Chats())
}

func TestStore_DayCountsOrdering(t *testing.T) {
	s := newTestStore()
	d := day(2025, 1, 1)

	// 5 and 6 tie on two messages; 5 was seen first
	for _, userID := range []int64{5, 6, 7, 6, 7, 7, 5} {
		s.Ingest(1, "Chat", userID, d, nil)
	}

	assert.Equal(t, []models.UserCount{
		{UserID: 7, Count: 3},
		{UserID: 5, Count: 2},
		{UserID: 6, Count: 2},
	}, s.DayCounts(1, d))

	assert.Empty(t, s.DayCounts(1, day(2025, 1, 2)))
	assert.Empty(t, s.DayCounts(404, d))
}

func TestStore_PeriodTotals(t *testing.T) {
	s := newTestStore()

	s.Ingest(1, "Chat", 7, day(2024, 12, 31), nil)
	s.Ingest(1, "Chat", 8, day(2025, 1, 1), nil)
	s.Ingest(1, "Chat", 8, day(2025, 1, 1), nil)
	s.Ingest(1, "Chat", 7, day(2025, 2, 1), nil)
	s.Ingest(1, "Chat", 7, day(2025, 2, 2), nil)

	t.Run("crosses year boundary", func(t *testing.T) {
		got, err := s.PeriodTotals(1, models.Period{Start: day(2024, 12, 31), End: day(2025, 1, 1)})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 8, Count: 2}, {UserID: 7, Count: 1}}, got)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		got, err := s.PeriodTotals(1, models.Period{Start: day(2025, 1, 1), End: day(2025, 2, 1)})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 8, Count: 2}, {UserID: 7, Count: 1}}, got)
	})

	t.Run("long sparse range", func(t *testing.T) {
		got, err := s.PeriodTotals(1, models.Period{Start: day(2000, 1, 1), End: day(2030, 1, 1)})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 7, Count: 3}, {UserID: 8, Count: 2}}, got)
	})

	t.Run("empty range", func(t *testing.T) {
		got, err := s.PeriodTotals(1, models.Period{Start: day(2026, 1, 1), End: day(2026, 1, 5)})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown chat", func(t *testing.T) {
		got, err := s.PeriodTotals(404, models.Period{Start: day(2025, 1, 1), End: day(2025, 1, 1)})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := s.PeriodTotals(1, models.Period{Start: day(2025, 2, 1), End: day(2025, 1, 1)})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestStore_SingleDayPeriodMatchesDayCounts(t *testing.T) {
	s := newTestStore()
	d := day(2025, 5, 5)
	for i, userID := range []int64{3, 1, 2, 1, 3, 3} {
		s.Ingest(1, "Chat", userID, d.AddDays(i%2), nil)
	}

	for _, date := range []models.Date{d, d.AddDays(1), d.AddDays(2)} {
		got, err := s.PeriodTotals(1, models.Period{Start: date, End: date})
		require.NoError(t, err)
		assert.ElementsMatch(t, s.DayCounts(1, date), got)
	}
}

func TestStore_CountsBoundedBySummary(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 20; i++ {
		s.Ingest(1, "Chat", int64(i%4), day(2025, 1, 1).AddDays(i%3), nil)
	}
	total := s.ChatSummary(1).TotalMessages
	assert.Equal(t, 20, total)

	sum := func(counts []models.UserCount) int {
		n := 0
		for _, c := range counts {
			n += c.Count
		}
		return n
	}

	assert.LessOrEqual(t, sum(s.DayCounts(1, day(2025, 1, 1))), total)
	period, err := s.PeriodTotals(1, models.Period{Start: day(2025, 1, 1), End: day(2025, 1, 2)})
	require.NoError(t, err)
	assert.LessOrEqual(t, sum(period), total)
}

func TestStore_WordFrequency(t *testing.T) {
	s := newTestStore()
	d := day(2025, 1, 1)

	s.Ingest(1, "Chat", 7, d, text("Go, go! GO?"))
	s.Ingest(1, "Chat", 8, d, text("#Go is not go"))
	s.Ingest(1, "Chat", 8, d.AddDays(1), text("(#go)"))
	s.Ingest(1, "Chat", 9, d, nil)

	period := models.Period{Start: d, End: d.AddDays(1)}

	t.Run("exact word", func(t *testing.T) {
		got, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterExactWord, Value: "go"})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 7, Count: 3}, {UserID: 8, Count: 1}}, got.Users)
		assert.Equal(t, 4, got.Total)
	})

	t.Run("exact tag keeps hash significant", func(t *testing.T) {
		got, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterExactTag, Value: "#go"})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 8, Count: 2}}, got.Users)
		assert.Equal(t, 2, got.Total)
	})

	t.Run("no filter counts every token", func(t *testing.T) {
		got, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterNone})
		require.NoError(t, err)
		assert.Equal(t, []models.UserCount{{UserID: 8, Count: 5}, {UserID: 7, Count: 3}}, got.Users)
		assert.Equal(t, 8, got.Total)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterExactWord, Value: "rust"})
		require.NoError(t, err)
		assert.Empty(t, got.Users)
		assert.Zero(t, got.Total)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := s.WordFrequency(1, models.Period{Start: d.AddDays(1), End: d}, models.WordFilter{})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("total equals sum of users", func(t *testing.T) {
		got, err := s.WordFrequency(1, period, models.WordFilter{Kind: models.FilterNone})
		require.NoError(t, err)
		sum := 0
		for _, u := range got.Users {
			sum += u.Count
		}
		assert.Equal(t, got.Total, sum)
	})
}

func TestStore_PruneTexts(t *testing.T) {
	s := newTestStore()
	s.Ingest(1, "Chat", 7, day(2025, 1, 1), text("old word"))
	s.Ingest(1, "Chat", 7, day(2025, 1, 2), text("new word"))
	s.Ingest(2, "Other", 8, day(2024, 6, 1), text("ancient word"))

	removed := s.PruneTexts(day(2025, 1, 2))
	assert.Equal(t, 2, removed)

	got, err := s.WordFrequency(1, models.Period{Start: day(2025, 1, 1), End: day(2025, 1, 2)},
		models.WordFilter{Kind: models.FilterExactWord, Value: "word"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)

	// counters survive pruning
	assert.Equal(t, 2, s.ChatSummary(1).TotalMessages)
	assert.Equal(t, []models.UserCount{{UserID: 8, Count: 1}}, s.DayCounts(2, day(2024, 6, 1)))
}

func TestStore_ConcurrentIngest(t *testing.T) {
	s := newTestStore()
	d := day(2025, 1, 1)

	const (
		workers  = 16
		perChat  = 200
		numChats = 4
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perChat; i++ {
				chatID := int64(i % numChats)
				s.Ingest(chatID, "Chat", int64(w), d, text("hello world"))
				_ = s.DayCounts(chatID, d)
				_, _ = s.WordFrequency(chatID, models.Period{Start: d, End: d}, models.WordFilter{})
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for chatID := int64(0); chatID < numChats; chatID++ {
		summary := s.ChatSummary(chatID)
		assert.Equal(t, workers, summary.DistinctUsers)
		total += summary.TotalMessages
	}
	assert.Equal(t, workers*perChat, total)

	words, err := s.WordFrequency(0, models.Period{Start: d, End: d}, models.WordFilter{Kind: models.FilterExactWord, Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, workers*perChat/numChats, words.Total)
}
