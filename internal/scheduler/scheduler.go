package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/chat-stats-bot/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner drops archived message texts older than a cutoff day
type Pruner interface {
	PruneTexts(cutoff models.Date) int
}

// Scheduler handles scheduled maintenance of the analytics store
type Scheduler struct {
	cron          *cron.Cron
	pruner        Pruner
	spec          string
	retentionDays int
	timezone      *time.Location
	now           func() time.Time
	logger        zerolog.Logger
}

// NewScheduler creates a new scheduler running jobs in the configured timezone
func NewScheduler(pruner Pruner, config *models.BotConfig, logger zerolog.Logger) (*Scheduler, error) {
	// Load timezone
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", config.Timezone, err)
	}

	logger = logger.With().Str("component", "scheduler").Logger()

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		pruner:        pruner,
		spec:          config.RetentionCron,
		retentionDays: config.TextRetentionDays,
		timezone:      loc,
		now:           time.Now,
		logger:        logger,
	}, nil
}

// Start registers jobs and blocks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting scheduler...")

	if s.retentionDays <= 0 {
		s.logger.Info().Msg("Text retention disabled, archived texts are kept indefinitely")
		<-ctx.Done()
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, s.RunRetention)
	if err != nil {
		return fmt.Errorf("failed to schedule retention job %q: %w", s.spec, err)
	}

	s.cron.Start()

	s.logger.Info().
		Str("schedule", s.spec).
		Int("retention_days", s.retentionDays).
		Time("next_run", s.cron.Entry(id).Next).
		Msg("Scheduled text retention job")

	<-ctx.Done()
	s.Stop()
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunRetention prunes archived texts older than the retention window.
// Today and the retentionDays-1 days before it are kept.
func (s *Scheduler) RunRetention() {
	if s.retentionDays <= 0 {
		return
	}

	today := models.DateOf(s.now(), s.timezone)
	cutoff := today.AddDays(-(s.retentionDays - 1))

	start := time.Now()
	removed := s.pruner.PruneTexts(cutoff)

	s.logger.Info().
		Str("cutoff", cutoff.String()).
		Int("removed_texts", removed).
		Dur("duration", time.Since(start)).
		Msg("Text retention job completed")
}

// cronLogger routes cron's own logging into zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
