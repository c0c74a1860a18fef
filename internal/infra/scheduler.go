package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// DailyScheduler runs a job once a day at a fixed UTC hour.
type DailyScheduler struct {
	name   string
	hour   int
	job    func(ctx context.Context) error
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewDailyScheduler creates a scheduler that fires job every day at hour:00 UTC.
func NewDailyScheduler(name string, hour int, job func(ctx context.Context) error, clock clockwork.Clock, logger *slog.Logger) *DailyScheduler {
	return &DailyScheduler{name: name, hour: hour, job: job, clock: clock, logger: logger}
}

// NextRun returns the first hour:00 UTC strictly after now.
func NextRun(now time.Time, hour int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled. A failing job is logged and retried on the next day.
func (s *DailyScheduler) Run(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := NextRun(now, s.hour)
		s.logger.Info("scheduler waiting", "job", s.name, "next_run", next)

		timer := s.clock.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped", "job", s.name)
			return
		case <-timer.Chan():
		}

		start := s.clock.Now()
		if err := s.job(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", s.name, "error", err)
			continue
		}
		s.logger.Info("scheduled job finished", "job", s.name, "duration", s.clock.Since(start))
	}
}

// Start runs the scheduler in a goroutine.
func (s *DailyScheduler) Start(ctx context.Context) {
	go s.Run(ctx)
}
