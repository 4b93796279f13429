// Package scheduler triggers the pipeline on a daily cron schedule. A failed
// run is retried exactly once after a fixed delay; there is no catch-up for
// missed runs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hoopsight/trapviz/pkg/logger"
)

// Default scheduling constants.
const (
	defaultSchedule   = "0 7 * * *"
	defaultRetryDelay = 5 * time.Minute
)

// Job is one pipeline invocation.
type Job func(ctx context.Context) error

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithSchedule sets the cron expression.
func WithSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// WithRetryDelay sets the fixed delay before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(log logger.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// Scheduler owns the cron loop around a Job.
type Scheduler struct {
	cron       *cron.Cron
	job        Job
	schedule   string
	retryDelay time.Duration
	log        logger.Logger
}

// New constructs a Scheduler for the given job.
func New(job Job, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:       cron.New(),
		job:        job,
		schedule:   defaultSchedule,
		retryDelay: defaultRetryDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	return s
}

// Start registers the job and starts the cron loop. It does not block.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runWithRetry(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadSchedule, s.schedule, err)
	}

	s.cron.Start()
	s.log.Info(ctx, "scheduler started", logger.String("schedule", s.schedule))
	return nil
}

// Stop halts the cron loop. Running jobs are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info(context.Background(), "scheduler stopped")
}

// runWithRetry runs the job, and on failure retries exactly once after the
// fixed delay. A second failure waits for the next scheduled run.
func (s *Scheduler) runWithRetry(ctx context.Context) {
	err := s.job(ctx)
	if err == nil {
		return
	}

	s.log.Warn(ctx, "scheduled run failed; retrying once",
		logger.Error(err),
		logger.String("retryIn", s.retryDelay.String()),
	)

	select {
	case <-ctx.Done():
		s.log.Warn(ctx, "retry abandoned, shutting down")
		return
	case <-time.After(s.retryDelay):
	}

	if err := s.job(ctx); err != nil {
		s.log.Error(ctx, "retry failed; waiting for next scheduled run", logger.Error(err))
	}
}
