package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/redecred/redecred"
)

// Ensure LoggingCatalogService implements redecred.CatalogService.
var _ redecred.CatalogService = (*LoggingCatalogService)(nil)

// LoggingCatalogService wraps a CatalogService with logging.
type LoggingCatalogService struct {
	next   redecred.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalogService creates a new LoggingCatalogService.
func NewLoggingCatalogService(next redecred.CatalogService, logger *slog.Logger) *LoggingCatalogService {
	return &LoggingCatalogService{next: next, logger: logger}
}

func (s *LoggingCatalogService) FindStates(ctx context.Context) (states []*redecred.State, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "catalog lookup",
			"domain", redecred.DomainStates,
			"count", len(states),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindStates(ctx)
}

func (s *LoggingCatalogService) FindCities(ctx context.Context, state string) (cities []*redecred.City, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "catalog lookup",
			"domain", redecred.DomainCities,
			"state", state,
			"count", len(cities),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindCities(ctx, state)
}

func (s *LoggingCatalogService) FindPlans(ctx context.Context, state, municipalityID string) (plans []*redecred.Plan, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "catalog lookup",
			"domain", redecred.DomainPlans,
			"state", state,
			"municipality", municipalityID,
			"count", len(plans),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPlans(ctx, state, municipalityID)
}

func (s *LoggingCatalogService) FindProviderTypes(ctx context.Context) (types []*redecred.ProviderType, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "catalog lookup",
			"domain", redecred.DomainProviderTypes,
			"count", len(types),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindProviderTypes(ctx)
}

func (s *LoggingCatalogService) FindSpecialties(ctx context.Context, planID, providerTypeID string) (specialties []*redecred.Specialty, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "catalog lookup",
			"domain", redecred.DomainSpecialties,
			"plan", planID,
			"type", providerTypeID,
			"count", len(specialties),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSpecialties(ctx, planID, providerTypeID)
}
