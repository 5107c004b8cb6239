package scheduler_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redecred/redecred/mock"
	"github.com/redecred/redecred/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 0
}

func TestScheduler_PurgeCache(t *testing.T) {
	t.Parallel()

	t.Run("purges the store", func(t *testing.T) {
		t.Parallel()

		cache := &mock.CacheStore{
			PurgeFn: func(context.Context) (int, error) { return 7, nil },
		}
		s := scheduler.NewScheduler(cache, discard(), time.UTC)

		n, err := s.PurgeCache(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("returns store error", func(t *testing.T) {
		t.Parallel()

		cache := &mock.CacheStore{
			PurgeFn: func(context.Context) (int, error) { return 0, errors.New("database is locked") },
		}
		s := scheduler.NewScheduler(cache, discard(), time.UTC)

		_, err := s.PurgeCache(context.Background())
		require.Error(t, err)
	})
}

func TestScheduler_Start(t *testing.T) {
	t.Parallel()

	t.Run("schedules the daily purge", func(t *testing.T) {
		t.Parallel()

		cache := &mock.CacheStore{
			PurgeFn: func(context.Context) (int, error) { return 0, nil },
		}
		s := scheduler.NewScheduler(cache, discard(), time.UTC)
		assert.True(t, s.NextPurge().IsZero())

		require.NoError(t, s.Start(context.Background()))
		defer s.Stop()

		next := s.NextPurge()
		assert.Equal(t, 3, next.Hour())
		assert.Equal(t, 0, next.Minute())
		assert.True(t, next.After(time.Now()))
		assert.True(t, next.Before(time.Now().Add(25*time.Hour)))
	})

	t.Run("sweeps rate limiter buckets", func(t *testing.T) {
		t.Parallel()

		cache := &mock.CacheStore{
			PurgeFn: func(context.Context) (int, error) { return 0, nil },
		}
		sweeper := &countingSweeper{}
		s := scheduler.NewScheduler(cache, discard(), time.UTC)
		s.Sweeper = sweeper
		s.SweepEvery = 20 * time.Millisecond

		require.NoError(t, s.Start(context.Background()))
		defer s.Stop()

		assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("rejects invalid purge time", func(t *testing.T) {
		t.Parallel()

		s := scheduler.NewScheduler(&mock.CacheStore{}, discard(), time.UTC)
		s.PurgeAt = "25:99"

		require.Error(t, s.Start(context.Background()))
	})
}
