package redecred

import "context"

// Domain identifies a catalog list served by the Listar endpoint.
// The values are the upstream TipoDominio parameter.
type Domain string

// Domain constants.
const (
	DomainStates        Domain = "Estados"
	DomainCities        Domain = "Cidades"
	DomainPlans         Domain = "PlanosGeap"
	DomainProviderTypes Domain = "Estabelecimentos"
	DomainSpecialties   Domain = "Especialidades"
)

// Label returns a human-readable name for the domain, used in error messages.
func (d Domain) Label() string {
	switch d {
	case DomainStates:
		return "states"
	case DomainCities:
		return "cities"
	case DomainPlans:
		return "plans"
	case DomainProviderTypes:
		return "provider types"
	case DomainSpecialties:
		return "specialties"
	}
	return string(d)
}

// State is a federative unit.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// City is a city entry as listed by the catalog. Several entries may share
// a MunicipalityID (districts are listed as "Name (District)").
type City struct {
	ID             string `json:"id"`
	MunicipalityID string `json:"municipalityId"`
	Name           string `json:"name"`
}

// Plan is a health plan.
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProviderType is a kind of establishment (clinic, laboratory, hospital...).
type ProviderType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Specialty is a care specialty offered under a plan and provider type.
type Specialty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogService lists the reference domains used to build a search filter.
//
// Implementations report upstream failures as EUNAVAILABLE together with an
// empty list; callers are expected to display the error and carry on.
type CatalogService interface {
	// FindStates lists all states.
	FindStates(ctx context.Context) ([]*State, error)

	// FindCities lists every city entry of a state, districts included.
	FindCities(ctx context.Context, state string) ([]*City, error)

	// FindPlans lists the plans available in a municipality.
	FindPlans(ctx context.Context, state, municipalityID string) ([]*Plan, error)

	// FindProviderTypes lists all provider types.
	FindProviderTypes(ctx context.Context) ([]*ProviderType, error)

	// FindSpecialties lists the specialties for a plan and provider type.
	FindSpecialties(ctx context.Context, planID, providerTypeID string) ([]*Specialty, error)
}
