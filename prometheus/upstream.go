package prometheus

import (
	"context"
	"time"

	"github.com/redecred/redecred"
)

var (
	_ redecred.CatalogService   = (*CatalogService)(nil)
	_ redecred.ProviderSearcher = (*ProviderSearcher)(nil)
)

// CatalogService records upstream metrics for catalog lookups.
type CatalogService struct {
	next    redecred.CatalogService
	metrics *Metrics
}

// NewCatalogService wraps next with metrics.
func NewCatalogService(next redecred.CatalogService, m *Metrics) *CatalogService {
	return &CatalogService{next: next, metrics: m}
}

func (s *CatalogService) FindStates(ctx context.Context) (_ []*redecred.State, err error) {
	defer s.metrics.observe(operation(redecred.DomainStates), time.Now(), &err)
	return s.next.FindStates(ctx)
}

func (s *CatalogService) FindCities(ctx context.Context, state string) (_ []*redecred.City, err error) {
	defer s.metrics.observe(operation(redecred.DomainCities), time.Now(), &err)
	return s.next.FindCities(ctx, state)
}

func (s *CatalogService) FindPlans(ctx context.Context, state, municipalityID string) (_ []*redecred.Plan, err error) {
	defer s.metrics.observe(operation(redecred.DomainPlans), time.Now(), &err)
	return s.next.FindPlans(ctx, state, municipalityID)
}

func (s *CatalogService) FindProviderTypes(ctx context.Context) (_ []*redecred.ProviderType, err error) {
	defer s.metrics.observe(operation(redecred.DomainProviderTypes), time.Now(), &err)
	return s.next.FindProviderTypes(ctx)
}

func (s *CatalogService) FindSpecialties(ctx context.Context, planID, providerTypeID string) (_ []*redecred.Specialty, err error) {
	defer s.metrics.observe(operation(redecred.DomainSpecialties), time.Now(), &err)
	return s.next.FindSpecialties(ctx, planID, providerTypeID)
}

// OperationSearch labels provider search page requests.
const OperationSearch = "search"

// ProviderSearcher records upstream metrics for search pages.
type ProviderSearcher struct {
	next    redecred.ProviderSearcher
	metrics *Metrics
}

// NewProviderSearcher wraps next with metrics.
func NewProviderSearcher(next redecred.ProviderSearcher, m *Metrics) *ProviderSearcher {
	return &ProviderSearcher{next: next, metrics: m}
}

func (s *ProviderSearcher) SearchPage(ctx context.Context, parameters string, page, pageSize int) (*redecred.ProviderPage, error) {
	begin := time.Now()
	result, err := s.next.SearchPage(ctx, parameters, page, pageSize)

	s.metrics.UpstreamDuration.WithLabelValues(OperationSearch).Observe(time.Since(begin).Seconds())
	label := outcome(err)
	if err == nil && result != nil && result.Malformed {
		label = OutcomeMalformed
	}
	s.metrics.UpstreamRequests.WithLabelValues(OperationSearch, label).Inc()

	return result, err
}

// operation returns the metric label of a catalog domain.
func operation(d redecred.Domain) string {
	return "list_" + string(d)
}

func (m *Metrics) observe(op string, begin time.Time, err *error) {
	m.UpstreamDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
	m.UpstreamRequests.WithLabelValues(op, outcome(*err)).Inc()
}
