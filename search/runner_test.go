package search_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redecred/redecred"
	"github.com/redecred/redecred/mock"
	"github.com/redecred/redecred/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseFilter(plan string) redecred.Filter {
	return redecred.Filter{
		PlanID:         plan,
		State:          "DF",
		CityID:         "100",
		ProviderTypeID: "2",
		SpecialtyID:    "41",
	}
}

// recordingSearcher returns one provider per call and records the
// parameters of every call.
func recordingSearcher(calls *[]string) *mock.ProviderSearcher {
	return &mock.ProviderSearcher{
		SearchPageFn: func(_ context.Context, parameters string, _, _ int) (*redecred.ProviderPage, error) {
			*calls = append(*calls, parameters)
			return &redecred.ProviderPage{
				Providers:  []*redecred.Provider{{Name: parameters}},
				TotalPages: 1,
			}, nil
		},
	}
}

func noNeighbors() *mock.NeighborService {
	return &mock.NeighborService{
		FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
			return nil, nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("plan with reciprocity runs exactly one extra search", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Neighbors: noNeighbors(),
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("9"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		require.Len(t, calls, 2)
		assert.False(t, strings.Contains(calls[0], "reciprocidadeId"))
		assert.True(t, strings.HasSuffix(calls[1], "reciprocidadeId:23030305;"))

		require.Len(t, report.Sections, 2)
		assert.Equal(t, search.PrimaryLabel, report.Sections[0].Label)
		assert.False(t, report.Sections[0].Reciprocity)
		assert.Equal(t, search.PrimaryLabel+" (reciprocity)", report.Sections[1].Label)
		assert.True(t, report.Sections[1].Reciprocity)
		assert.Len(t, report.Sections[0].Providers, 1)
		assert.Len(t, report.Sections[1].Providers, 1)
	})

	t.Run("plan without reciprocity runs no extra search", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Neighbors: noNeighbors(),
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.Len(t, report.Sections, 1)
	})

	t.Run("searches resolvable neighbors and skips the rest", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Catalog: &mock.CatalogService{
				FindCitiesFn: func(_ context.Context, state string) ([]*redecred.City, error) {
					assert.Equal(t, "DF", state)
					return []*redecred.City{
						{ID: "100", MunicipalityID: "5300108", Name: "Brasilia"},
						{ID: "201", MunicipalityID: "5208004", Name: "Luziania (Jardim)"},
						{ID: "200", MunicipalityID: "5208004", Name: "Luziania"},
						{ID: "300", MunicipalityID: "5215231", Name: "Novo Gama"},
					}, nil
				},
			},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(_ context.Context, municipalityID string) ([]*redecred.Neighbor, error) {
					assert.Equal(t, "5300108", municipalityID)
					return []*redecred.Neighbor{
						{MunicipalityID: "5208004", Name: "LUZIANIA"},
						{MunicipalityID: "5200258", Name: "AGUAS LINDAS DE GOIAS"},
						{MunicipalityID: "5215231", Name: "NOVO GAMA"},
					}, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		require.Len(t, report.Sections, 3)
		assert.Equal(t, search.PrimaryLabel, report.Sections[0].Label)
		assert.Equal(t, "Luziania", report.Sections[1].Label)
		assert.Equal(t, "200", report.Sections[1].CityID)
		assert.Equal(t, "5208004", report.Sections[1].MunicipalityID)
		assert.Equal(t, "Novo Gama", report.Sections[2].Label)

		require.Len(t, calls, 3)
		assert.Contains(t, calls[0], "NroCidade:100;")
		assert.Contains(t, calls[1], "NroCidade:200;")
		assert.Contains(t, calls[2], "NroCidade:300;")

		require.Len(t, report.Skipped, 1)
		assert.Equal(t, "5200258", report.Skipped[0].MunicipalityID)
		assert.Equal(t, "AGUAS LINDAS DE GOIAS", report.Skipped[0].Name)
		for _, s := range report.Sections {
			assert.NotEqual(t, "5200258", s.MunicipalityID)
		}
	})

	t.Run("skips neighbors listed only by their districts", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Catalog: &mock.CatalogService{
				FindCitiesFn: func(context.Context, string) ([]*redecred.City, error) {
					return []*redecred.City{
						{ID: "100", MunicipalityID: "5300108", Name: "Brasilia"},
						{ID: "401", MunicipalityID: "5217609", Name: "Planaltina (Distrito A)"},
						{ID: "402", MunicipalityID: "5217609", Name: "Planaltina (Distrito B)"},
					}, nil
				},
			},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					return []*redecred.Neighbor{{MunicipalityID: "5217609", Name: "PLANALTINA"}}, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		require.Len(t, report.Sections, 1)
		assert.Equal(t, search.PrimaryLabel, report.Sections[0].Label)
		require.Len(t, calls, 1)
		require.Len(t, report.Skipped, 1)
		assert.Equal(t, "5217609", report.Skipped[0].MunicipalityID)
		assert.Equal(t, "PLANALTINA", report.Skipped[0].Name)
	})

	t.Run("neighbors get their own reciprocity sections", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Catalog: &mock.CatalogService{
				FindCitiesFn: func(context.Context, string) ([]*redecred.City, error) {
					return []*redecred.City{{ID: "200", MunicipalityID: "5208004", Name: "Luziania"}}, nil
				},
			},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					return []*redecred.Neighbor{{MunicipalityID: "5208004", Name: "LUZIANIA"}}, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("83"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		require.Len(t, report.Sections, 4)
		labels := make([]string, 0, len(report.Sections))
		for _, s := range report.Sections {
			labels = append(labels, s.Label)
		}
		assert.Equal(t, []string{
			search.PrimaryLabel,
			search.PrimaryLabel + " (reciprocity)",
			"Luziania",
			"Luziania (reciprocity)",
		}, labels)
	})

	t.Run("a failed section does not stop the others", func(t *testing.T) {
		t.Parallel()

		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: &mock.ProviderSearcher{
				SearchPageFn: func(_ context.Context, parameters string, _, _ int) (*redecred.ProviderPage, error) {
					if strings.Contains(parameters, "reciprocidadeId") {
						return nil, errors.New("timeout")
					}
					return &redecred.ProviderPage{Providers: []*redecred.Provider{{Name: "A"}}, TotalPages: 1}, nil
				},
			}},
			Catalog: &mock.CatalogService{
				FindCitiesFn: func(context.Context, string) ([]*redecred.City, error) {
					return []*redecred.City{{ID: "200", MunicipalityID: "5208004", Name: "Luziania"}}, nil
				},
			},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					return []*redecred.Neighbor{{MunicipalityID: "5208004", Name: "LUZIANIA"}}, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("9"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		require.Len(t, report.Sections, 4)
		assert.NoError(t, report.Sections[0].Err)
		assert.Error(t, report.Sections[1].Err)
		assert.NoError(t, report.Sections[2].Err)
		assert.Error(t, report.Sections[3].Err)
	})

	t.Run("neighbor lookup failure becomes a warning", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					return nil, errors.New("open BR_Municipios_2024_LIMITROFES.xls: no such file")
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		assert.Len(t, report.Sections, 1)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "no such file")
	})

	t.Run("city list failure skips the expansion with a warning", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Catalog: &mock.CatalogService{
				FindCitiesFn: func(context.Context, string) ([]*redecred.City, error) {
					return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to fetch cities: HTTP 500")
				},
			},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					return []*redecred.Neighbor{{MunicipalityID: "5208004", Name: "LUZIANIA"}}, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108"}, nil)

		require.NoError(t, err)
		assert.Len(t, report.Sections, 1)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "failed to fetch cities")
	})

	t.Run("skip neighbors disables the expansion", func(t *testing.T) {
		t.Parallel()

		var calls []string
		r := &search.Runner{
			Paginator: &search.Paginator{Searcher: recordingSearcher(&calls)},
			Neighbors: &mock.NeighborService{
				FindNeighborsFn: func(context.Context, string) ([]*redecred.Neighbor, error) {
					t.Fatal("neighbors must not be looked up")
					return nil, nil
				},
			},
		}

		report, err := r.Run(context.Background(), search.Request{Filter: baseFilter("4"), MunicipalityID: "5300108", SkipNeighbors: true}, nil)

		require.NoError(t, err)
		assert.Len(t, report.Sections, 1)
	})

	t.Run("rejects an incomplete filter", func(t *testing.T) {
		t.Parallel()

		r := &search.Runner{Paginator: &search.Paginator{}}
		f := baseFilter("9")
		f.PlanID = ""

		_, err := r.Run(context.Background(), search.Request{Filter: f}, nil)

		require.Error(t, err)
		assert.Equal(t, redecred.EINVALID, redecred.ErrorCode(err))
	})
}
