package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/redecred/redecred"
	main "github.com/redecred/redecred/cmd/redecred"
	"github.com/redecred/redecred/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(catalog redecred.CatalogService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  stderr,
		Catalog: catalog,
	}, stdout, stderr
}

func TestStatesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists states", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(&mock.CatalogService{
			FindStatesFn: func(context.Context) ([]*redecred.State, error) {
				return []*redecred.State{{Code: "DF", Name: "Distrito Federal"}, {Code: "GO", Name: "Goiás"}}, nil
			},
		})

		require.NoError(t, (&main.StatesCmd{}).Run(deps))
		assert.Equal(t, "DF  Distrito Federal\nGO  Goiás\n", stdout.String())
	})

	t.Run("lookup failure is reported without failing", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps(&mock.CatalogService{
			FindStatesFn: func(context.Context) ([]*redecred.State, error) {
				return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to fetch states: HTTP 503")
			},
		})

		require.NoError(t, (&main.StatesCmd{}).Run(deps))
		assert.Empty(t, stdout.String())
		assert.Equal(t, "error: failed to fetch states: HTTP 503\n", stderr.String())
	})
}

func TestCitiesCmd_Run(t *testing.T) {
	t.Parallel()

	catalog := &mock.CatalogService{
		FindCitiesFn: func(_ context.Context, state string) ([]*redecred.City, error) {
			if state != "GO" {
				return nil, nil
			}
			return []*redecred.City{
				{ID: "200", MunicipalityID: "5208004", Name: "Luziânia"},
				{ID: "300", MunicipalityID: "5215231", Name: "Novo Gama"},
			}, nil
		},
	}

	t.Run("lists every city with its municipality", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(catalog)

		require.NoError(t, (&main.CitiesCmd{State: "go"}).Run(deps))
		assert.Equal(t, "200  5208004  Luziânia\n300  5215231  Novo Gama\n", stdout.String())
	})

	t.Run("filters by name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(catalog)

		require.NoError(t, (&main.CitiesCmd{State: "GO", Query: "luzia"}).Run(deps))
		assert.Equal(t, "200  5208004  Luziânia\n", stdout.String())
	})

	t.Run("empty state", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(catalog)

		require.NoError(t, (&main.CitiesCmd{State: "DF"}).Run(deps))
		assert.Equal(t, "No cities found.\n", stdout.String())
	})
}

func TestPlansCmd_Run(t *testing.T) {
	t.Parallel()

	catalog := &mock.CatalogService{
		FindCitiesFn: func(context.Context, string) ([]*redecred.City, error) {
			return []*redecred.City{{ID: "100", MunicipalityID: "5300108", Name: "Brasília"}}, nil
		},
		FindPlansFn: func(_ context.Context, state, municipalityID string) ([]*redecred.Plan, error) {
			if municipalityID != "5300108" {
				return nil, nil
			}
			return []*redecred.Plan{{ID: "9", Name: "GEAP Referência"}}, nil
		},
	}

	t.Run("resolves the city by name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(catalog)

		require.NoError(t, (&main.PlansCmd{State: "DF", City: "brasilia"}).Run(deps))
		assert.Equal(t, "9  GEAP Referência\n", stdout.String())
	})

	t.Run("resolves the city by id", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(catalog)

		require.NoError(t, (&main.PlansCmd{State: "DF", City: "100"}).Run(deps))
		assert.Equal(t, "9  GEAP Referência\n", stdout.String())
	})

	t.Run("unknown city", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(catalog)

		err := (&main.PlansCmd{State: "DF", City: "Recife"}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, redecred.ENOTFOUND, redecred.ErrorCode(err))
		assert.Contains(t, stderr.String(), `city "Recife" not found in DF`)
	})
}

func TestTypesAndSpecialtiesCmd_Run(t *testing.T) {
	t.Parallel()

	catalog := &mock.CatalogService{
		FindProviderTypesFn: func(context.Context) ([]*redecred.ProviderType, error) {
			return []*redecred.ProviderType{{ID: "2", Name: "Clínica"}}, nil
		},
		FindSpecialtiesFn: func(_ context.Context, planID, providerTypeID string) ([]*redecred.Specialty, error) {
			assert.Equal(t, "9", planID)
			assert.Equal(t, "2", providerTypeID)
			return nil, nil
		},
	}

	deps, stdout, _ := newDeps(catalog)
	require.NoError(t, (&main.TypesCmd{}).Run(deps))
	assert.Equal(t, "2  Clínica\n", stdout.String())

	deps, stdout, _ = newDeps(catalog)
	require.NoError(t, (&main.SpecialtiesCmd{Plan: "9", Type: "2"}).Run(deps))
	assert.Equal(t, "No specialties found.\n", stdout.String())
}

func TestNeighborsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists neighbors", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Neighbors = &mock.NeighborService{
			FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
				return []*redecred.Neighbor{{MunicipalityID: "5208004", Name: "Luziânia"}}, nil
			},
		}

		require.NoError(t, (&main.NeighborsCmd{Municipality: "5300108"}).Run(deps))
		assert.Equal(t, "5208004  Luziânia\n", stdout.String())
	})

	t.Run("pads the code when none are found", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Neighbors = &mock.NeighborService{
			FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
				return nil, nil
			},
		}

		require.NoError(t, (&main.NeighborsCmd{Municipality: "530010"}).Run(deps))
		assert.Equal(t, "No neighbors found for 0530010.\n", stdout.String())
	})

	t.Run("missing reference file fails", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Neighbors = &mock.NeighborService{
			FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
				return nil, redecred.Errorf(redecred.ENOTFOUND, "neighbor reference file x.csv not found")
			},
		}

		require.Error(t, (&main.NeighborsCmd{Municipality: "5300108"}).Run(deps))
		assert.Equal(t, "error: neighbor reference file x.csv not found\n", stderr.String())
	})
}
