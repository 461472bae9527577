// Package scheduler runs the periodic maintenance jobs: publishing
// scheduled articles, expiring auth tokens and trimming old events.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/davrbek/folio/internal/store"
)

// DefaultEventRetention is how long application events are kept.
const DefaultEventRetention = 90 * 24 * time.Hour

// Scheduler owns the cron instance and the jobs it runs.
type Scheduler struct {
	queries        *store.Queries
	cron           *cron.Cron
	logger         *slog.Logger
	eventRetention time.Duration
}

// New creates a scheduler. A zero eventRetention falls back to the default.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		queries:        store.New(db),
		cron:           cron.New(),
		logger:         logger,
		eventRetention: DefaultEventRetention,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		run  func(context.Context) error
		name string
	}{
		{"* * * * *", s.publishDueArticles, "publish_due_articles"},
		{"@hourly", s.cleanupAuthTokens, "cleanup_auth_tokens"},
		{"@daily", s.cleanupEvents, "cleanup_events"},
	}
	for _, job := range jobs {
		run, name := job.run, job.name
		if _, err := s.cron.AddFunc(job.spec, func() {
			if err := run(context.Background()); err != nil {
				s.logger.Error("scheduled job failed",
					"source", "scheduler", "job", name, "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDueArticles flips drafts whose scheduled time has passed to
// published.
func (s *Scheduler) publishDueArticles(ctx context.Context) error {
	published, err := s.queries.PublishDueArticles(ctx, time.Now())
	if err != nil {
		return err
	}
	if published > 0 {
		s.logger.Info("published scheduled articles",
			"source", "scheduler", "count", published)
	}
	return nil
}

// cleanupAuthTokens removes expired admin sessions.
func (s *Scheduler) cleanupAuthTokens(ctx context.Context) error {
	deleted, err := s.queries.DeleteExpiredAuthTokens(ctx, time.Now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("deleted expired auth tokens",
			"source", "scheduler", "count", deleted)
	}
	return nil
}

// cleanupEvents trims events past the retention window.
func (s *Scheduler) cleanupEvents(ctx context.Context) error {
	cutoff := time.Now().Add(-s.eventRetention)
	deleted, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("deleted old events",
			"source", "scheduler", "count", deleted)
	}
	return nil
}
