package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/redecred/redecred"
	"github.com/redecred/redecred/cache"
	"github.com/redecred/redecred/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore returns a CacheStore backed by a map.
func mapStore() (*mock.CacheStore, map[string][]byte) {
	var mu sync.Mutex
	m := map[string][]byte{}
	return &mock.CacheStore{
		GetFn: func(_ context.Context, key string) ([]byte, bool, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := m[key]
			return v, ok, nil
		},
		SetFn: func(_ context.Context, key string, value []byte) error {
			mu.Lock()
			defer mu.Unlock()
			m[key] = value
			return nil
		},
		PurgeFn: func(context.Context) (int, error) {
			mu.Lock()
			defer mu.Unlock()
			n := len(m)
			clear(m)
			return n, nil
		},
	}, m
}

func TestCatalogService(t *testing.T) {
	t.Parallel()

	t.Run("second lookup is served from the store", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.CatalogService{
			FindCitiesFn: func(_ context.Context, state string) ([]*redecred.City, error) {
				calls++
				return []*redecred.City{{ID: "100", MunicipalityID: "5300108", Name: "Brasilia"}}, nil
			},
		}
		store, _ := mapStore()
		svc := cache.NewCatalogService(next, store)
		ctx := context.Background()

		first, err := svc.FindCities(ctx, "DF")
		require.NoError(t, err)
		second, err := svc.FindCities(ctx, "DF")
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)
	})

	t.Run("different arguments are cached separately", func(t *testing.T) {
		t.Parallel()

		var states []string
		next := &mock.CatalogService{
			FindCitiesFn: func(_ context.Context, state string) ([]*redecred.City, error) {
				states = append(states, state)
				return []*redecred.City{{ID: state}}, nil
			},
		}
		store, m := mapStore()
		svc := cache.NewCatalogService(next, store)
		ctx := context.Background()

		df, err := svc.FindCities(ctx, "DF")
		require.NoError(t, err)
		gov, err := svc.FindCities(ctx, "GO")
		require.NoError(t, err)

		assert.Equal(t, []string{"DF", "GO"}, states)
		assert.Equal(t, "DF", df[0].ID)
		assert.Equal(t, "GO", gov[0].ID)
		assert.Len(t, m, 2)
	})

	t.Run("failed lookups are not stored", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.CatalogService{
			FindStatesFn: func(context.Context) ([]*redecred.State, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("HTTP 503")
				}
				return []*redecred.State{{Code: "DF", Name: "Distrito Federal"}}, nil
			},
		}
		store, m := mapStore()
		svc := cache.NewCatalogService(next, store)
		ctx := context.Background()

		_, err := svc.FindStates(ctx)
		require.Error(t, err)
		assert.Empty(t, m)

		states, err := svc.FindStates(ctx)
		require.NoError(t, err)
		assert.Len(t, states, 1)
		assert.Equal(t, 2, calls)
	})

	t.Run("empty results are stored", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.CatalogService{
			FindSpecialtiesFn: func(context.Context, string, string) ([]*redecred.Specialty, error) {
				calls++
				return nil, nil
			},
		}
		store, _ := mapStore()
		svc := cache.NewCatalogService(next, store)
		ctx := context.Background()

		for range 2 {
			items, err := svc.FindSpecialties(ctx, "9", "2")
			require.NoError(t, err)
			assert.Empty(t, items)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("store failures fall through to upstream", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.CatalogService{
			FindProviderTypesFn: func(context.Context) ([]*redecred.ProviderType, error) {
				calls++
				return []*redecred.ProviderType{{ID: "2", Name: "Clinica"}}, nil
			},
		}
		store := &mock.CacheStore{
			GetFn: func(context.Context, string) ([]byte, bool, error) {
				return nil, false, errors.New("database is locked")
			},
			SetFn: func(context.Context, string, []byte) error {
				return errors.New("database is locked")
			},
		}
		svc := cache.NewCatalogService(next, store)

		types, err := svc.FindProviderTypes(context.Background())
		require.NoError(t, err)
		assert.Len(t, types, 1)
		assert.Equal(t, 1, calls)
	})

	t.Run("plans are keyed by state and municipality", func(t *testing.T) {
		t.Parallel()

		next := &mock.CatalogService{
			FindPlansFn: func(_ context.Context, state, municipalityID string) ([]*redecred.Plan, error) {
				return []*redecred.Plan{{ID: state + municipalityID}}, nil
			},
		}
		store, m := mapStore()
		svc := cache.NewCatalogService(next, store)

		_, err := svc.FindPlans(context.Background(), "DF", "5300108")
		require.NoError(t, err)

		_, ok := m[cache.Key(redecred.DomainPlans, "DF", "5300108")]
		assert.True(t, ok)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.Key(redecred.DomainCities, "DF"), cache.Key(redecred.DomainCities, "DF"))
	assert.NotEqual(t, cache.Key(redecred.DomainCities, "DF"), cache.Key(redecred.DomainCities, "GO"))
	assert.NotEqual(t, cache.Key(redecred.DomainPlans, "D", "F1"), cache.Key(redecred.DomainPlans, "DF", "1"))
	assert.Contains(t, cache.Key(redecred.DomainStates), "Estados:")
}
