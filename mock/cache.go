package mock

import (
	"context"

	"github.com/redecred/redecred"
)

var _ redecred.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of redecred.CacheStore.
type CacheStore struct {
	GetFn   func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn   func(ctx context.Context, key string, value []byte) error
	PurgeFn func(ctx context.Context) (int, error)
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.GetFn(ctx, key)
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetFn(ctx, key, value)
}

func (s *CacheStore) Purge(ctx context.Context) (int, error) {
	return s.PurgeFn(ctx)
}
