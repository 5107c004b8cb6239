package http

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/redecred/redecred"
)

// Ensure CatalogService implements redecred.CatalogService at compile time.
var _ redecred.CatalogService = (*CatalogService)(nil)

// CatalogService implements redecred.CatalogService using the Listar endpoint.
type CatalogService struct {
	client *Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client *Client) *CatalogService {
	return &CatalogService{client: client}
}

type listResponse[T any] struct {
	ResultData []T `json:"resultData"`
}

type apiState struct {
	Code FlexString `json:"sglEstado"`
	Name string     `json:"nmeEstado"`
}

type apiCity struct {
	ID             FlexString `json:"nroCidade"`
	MunicipalityID FlexString `json:"nroMunicipio"`
	Name           string     `json:"nmeCidade"`
}

type apiPlan struct {
	ID   FlexString `json:"nroPlano"`
	Name string     `json:"nmePlano"`
}

type apiProviderType struct {
	ID   FlexString `json:"nroTpoEstabelecimento"`
	Name string     `json:"nmeTpoEstabelecimento"`
}

type apiSpecialty struct {
	ID   FlexString `json:"nroEspAtendimento"`
	Name string     `json:"desEspAtendimento"`
}

// FindStates lists all states.
func (s *CatalogService) FindStates(ctx context.Context) ([]*redecred.State, error) {
	items, err := list[apiState](ctx, s.client, redecred.DomainStates, nil)
	if err != nil {
		return nil, err
	}
	states := make([]*redecred.State, 0, len(items))
	for _, it := range items {
		states = append(states, &redecred.State{Code: it.Code.String(), Name: it.Name})
	}
	return states, nil
}

// FindCities lists every city entry of a state.
func (s *CatalogService) FindCities(ctx context.Context, state string) ([]*redecred.City, error) {
	items, err := list[apiCity](ctx, s.client, redecred.DomainCities, url.Values{
		"uf": {state},
	})
	if err != nil {
		return nil, err
	}
	cities := make([]*redecred.City, 0, len(items))
	for _, it := range items {
		cities = append(cities, &redecred.City{
			ID:             it.ID.String(),
			MunicipalityID: redecred.PadMunicipality(it.MunicipalityID.String()),
			Name:           it.Name,
		})
	}
	return cities, nil
}

// FindPlans lists the plans available in a municipality.
func (s *CatalogService) FindPlans(ctx context.Context, state, municipalityID string) ([]*redecred.Plan, error) {
	items, err := list[apiPlan](ctx, s.client, redecred.DomainPlans, url.Values{
		"tipoConsulta": {"1"},
		"uf":           {state},
		"municipioId":  {municipalityID},
	})
	if err != nil {
		return nil, err
	}
	plans := make([]*redecred.Plan, 0, len(items))
	for _, it := range items {
		plans = append(plans, &redecred.Plan{ID: it.ID.String(), Name: it.Name})
	}
	return plans, nil
}

// FindProviderTypes lists all provider types.
func (s *CatalogService) FindProviderTypes(ctx context.Context) ([]*redecred.ProviderType, error) {
	items, err := list[apiProviderType](ctx, s.client, redecred.DomainProviderTypes, url.Values{
		"tipoConsulta": {"1"},
	})
	if err != nil {
		return nil, err
	}
	types := make([]*redecred.ProviderType, 0, len(items))
	for _, it := range items {
		types = append(types, &redecred.ProviderType{ID: it.ID.String(), Name: it.Name})
	}
	return types, nil
}

// FindSpecialties lists the specialties for a plan and provider type.
func (s *CatalogService) FindSpecialties(ctx context.Context, planID, providerTypeID string) ([]*redecred.Specialty, error) {
	items, err := list[apiSpecialty](ctx, s.client, redecred.DomainSpecialties, url.Values{
		"tipoConsulta":           {"1"},
		"NroPlano":               {planID},
		"NroTipoEstabelecimento": {providerTypeID},
	})
	if err != nil {
		return nil, err
	}
	specialties := make([]*redecred.Specialty, 0, len(items))
	for _, it := range items {
		specialties = append(specialties, &redecred.Specialty{ID: it.ID.String(), Name: it.Name})
	}
	return specialties, nil
}

// list fetches one catalog domain. A null or absent resultData is an empty
// list; any transport or decoding failure is EUNAVAILABLE.
func list[T any](ctx context.Context, c *Client, domain redecred.Domain, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("TipoDominio", string(domain))

	body, err := c.get(ctx, "/Listar", query)
	if err != nil {
		return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to fetch %s: %v", domain.Label(), err)
	}

	var resp listResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to decode %s: %v", domain.Label(), err)
	}
	return resp.ResultData, nil
}
