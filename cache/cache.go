// Package cache memoizes catalog lookups in a redecred.CacheStore.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/redecred/redecred"
	"golang.org/x/sync/singleflight"
)

// Compile-time interface verification.
var _ redecred.CatalogService = (*CatalogService)(nil)

// CatalogService wraps a CatalogService so each distinct lookup reaches the
// upstream at most once. Failed lookups are not stored and are retried on
// the next call. Concurrent identical lookups share a single upstream call.
type CatalogService struct {
	next  redecred.CatalogService
	store redecred.CacheStore
	group singleflight.Group
}

// NewCatalogService creates a memoizing CatalogService.
func NewCatalogService(next redecred.CatalogService, store redecred.CacheStore) *CatalogService {
	return &CatalogService{next: next, store: store}
}

func (s *CatalogService) FindStates(ctx context.Context) ([]*redecred.State, error) {
	return memoize(ctx, s, Key(redecred.DomainStates), func() ([]*redecred.State, error) {
		return s.next.FindStates(ctx)
	})
}

func (s *CatalogService) FindCities(ctx context.Context, state string) ([]*redecred.City, error) {
	return memoize(ctx, s, Key(redecred.DomainCities, state), func() ([]*redecred.City, error) {
		return s.next.FindCities(ctx, state)
	})
}

func (s *CatalogService) FindPlans(ctx context.Context, state, municipalityID string) ([]*redecred.Plan, error) {
	return memoize(ctx, s, Key(redecred.DomainPlans, state, municipalityID), func() ([]*redecred.Plan, error) {
		return s.next.FindPlans(ctx, state, municipalityID)
	})
}

func (s *CatalogService) FindProviderTypes(ctx context.Context) ([]*redecred.ProviderType, error) {
	return memoize(ctx, s, Key(redecred.DomainProviderTypes), func() ([]*redecred.ProviderType, error) {
		return s.next.FindProviderTypes(ctx)
	})
}

func (s *CatalogService) FindSpecialties(ctx context.Context, planID, providerTypeID string) ([]*redecred.Specialty, error) {
	return memoize(ctx, s, Key(redecred.DomainSpecialties, planID, providerTypeID), func() ([]*redecred.Specialty, error) {
		return s.next.FindSpecialties(ctx, planID, providerTypeID)
	})
}

// Key builds the cache key of a lookup: the domain followed by a hash of its
// arguments.
func Key(domain redecred.Domain, args ...string) string {
	h := xxhash.Sum64String(strings.Join(args, "\x00"))
	return fmt.Sprintf("%s:%016x", domain, h)
}

// memoize returns the stored value for key or calls fetch and stores its
// result. A store that cannot be read or written degrades to a pass-through.
func memoize[T any](ctx context.Context, s *CatalogService, key string, fetch func() ([]T, error)) ([]T, error) {
	if data, ok, err := s.store.Get(ctx, key); err == nil && ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		items, err := fetch()
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		if data, err := json.Marshal(items); err == nil {
			_ = s.store.Set(ctx, key, data)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}
