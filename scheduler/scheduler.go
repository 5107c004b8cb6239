// Package scheduler runs the periodic maintenance jobs of the HTTP server:
// the daily cache purge and the sweep of idle rate limiter buckets.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/redecred/redecred"
)

// Default schedule.
const (
	DefaultPurgeAt    = "03:00"
	DefaultSweepEvery = 30 * time.Minute
)

// Sweeper forgets idle clients and returns how many were removed.
type Sweeper interface {
	Sweep() int
}

// Scheduler purges the memo cache once a day so a long-running server
// refreshes its catalog data daily.
type Scheduler struct {
	Cache   redecred.CacheStore
	Sweeper Sweeper
	Logger  *slog.Logger

	// PurgeAt is the local time of day of the cache purge, as "HH:MM".
	PurgeAt string

	// SweepEvery is the interval between rate limiter sweeps.
	SweepEvery time.Duration

	scheduler *gocron.Scheduler
}

// NewScheduler creates a Scheduler in the given location.
func NewScheduler(cache redecred.CacheStore, logger *slog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cache:      cache,
		Logger:     logger,
		PurgeAt:    DefaultPurgeAt,
		SweepEvery: DefaultSweepEvery,
		scheduler:  gocron.NewScheduler(loc),
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.scheduler.Every(1).Days().At(s.PurgeAt).Tag("purge").Do(func() {
		if _, err := s.PurgeCache(ctx); err != nil {
			s.Logger.Error("failed to purge cache", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule cache purge: %w", err)
	}

	if s.Sweeper != nil {
		if _, err := s.scheduler.Every(s.SweepEvery).Tag("sweep").Do(func() {
			n := s.Sweeper.Sweep()
			s.Logger.Debug("rate limiter sweep", "removed", n)
		}); err != nil {
			return fmt.Errorf("failed to schedule rate limiter sweep: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.Logger.Info("scheduler started", "purge_at", s.PurgeAt, "next_purge", s.NextPurge())
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextPurge returns when the cache will next be purged, or the zero time if
// the job is not scheduled.
func (s *Scheduler) NextPurge() time.Time {
	jobs, err := s.scheduler.FindJobsByTag("purge")
	if err != nil || len(jobs) == 0 {
		return time.Time{}
	}
	return jobs[0].NextRun()
}

// PurgeCache empties the memo cache.
func (s *Scheduler) PurgeCache(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.Cache.Purge(ctx)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("cache purged", "removed", n, "duration", time.Since(start))
	return n, nil
}
