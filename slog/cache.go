package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/redecred/redecred"
)

// Ensure LoggingCacheStore implements redecred.CacheStore.
var _ redecred.CacheStore = (*LoggingCacheStore)(nil)

// LoggingCacheStore wraps a CacheStore with logging.
type LoggingCacheStore struct {
	next   redecred.CacheStore
	logger *slog.Logger
}

// NewLoggingCacheStore creates a new LoggingCacheStore.
func NewLoggingCacheStore(next redecred.CacheStore, logger *slog.Logger) *LoggingCacheStore {
	return &LoggingCacheStore{next: next, logger: logger}
}

func (s *LoggingCacheStore) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	defer func() {
		s.logger.Log(ctx, levelFor(err), "cache get", "key", key, "hit", ok, "err", err)
	}()
	return s.next.Get(ctx, key)
}

func (s *LoggingCacheStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer func() {
		s.logger.Log(ctx, levelFor(err), "cache set", "key", key, "bytes", len(value), "err", err)
	}()
	return s.next.Set(ctx, key, value)
}

func (s *LoggingCacheStore) Purge(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.InfoContext(ctx, "cache purge",
			"removed", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Purge(ctx)
}
