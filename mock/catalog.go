package mock

import (
	"context"

	"github.com/redecred/redecred"
)

var _ redecred.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of redecred.CatalogService.
type CatalogService struct {
	FindStatesFn        func(ctx context.Context) ([]*redecred.State, error)
	FindCitiesFn        func(ctx context.Context, state string) ([]*redecred.City, error)
	FindPlansFn         func(ctx context.Context, state, municipalityID string) ([]*redecred.Plan, error)
	FindProviderTypesFn func(ctx context.Context) ([]*redecred.ProviderType, error)
	FindSpecialtiesFn   func(ctx context.Context, planID, providerTypeID string) ([]*redecred.Specialty, error)
}

func (s *CatalogService) FindStates(ctx context.Context) ([]*redecred.State, error) {
	return s.FindStatesFn(ctx)
}

func (s *CatalogService) FindCities(ctx context.Context, state string) ([]*redecred.City, error) {
	return s.FindCitiesFn(ctx, state)
}

func (s *CatalogService) FindPlans(ctx context.Context, state, municipalityID string) ([]*redecred.Plan, error) {
	return s.FindPlansFn(ctx, state, municipalityID)
}

func (s *CatalogService) FindProviderTypes(ctx context.Context) ([]*redecred.ProviderType, error) {
	return s.FindProviderTypesFn(ctx)
}

func (s *CatalogService) FindSpecialties(ctx context.Context, planID, providerTypeID string) ([]*redecred.Specialty, error) {
	return s.FindSpecialtiesFn(ctx, planID, providerTypeID)
}
