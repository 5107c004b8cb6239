package redecred

import "strings"

// ReciprocityID is the network identifier appended to a search filter to
// query the reciprocity network.
const ReciprocityID = "23030305"

// reciprocityPlans holds the plan IDs that accept the reciprocity network.
var reciprocityPlans = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "5": {}, "7": {}, "9": {},
	"11": {}, "13": {}, "83": {}, "123": {}, "124": {},
}

// SupportsReciprocity reports whether searches for the plan should be
// repeated on the reciprocity network.
func SupportsReciprocity(planID string) bool {
	_, ok := reciprocityPlans[strings.TrimSpace(planID)]
	return ok
}

// WithReciprocity appends the reciprocity clause to encoded filter parameters.
func WithReciprocity(parameters string) string {
	return parameters + "reciprocidadeId:" + ReciprocityID + ";"
}

// Filter holds the resolved codes of a provider search.
// The optional fields are sent empty unless set.
type Filter struct {
	PlanID         string `json:"planId"`
	State          string `json:"state"`
	CityID         string `json:"cityId"`
	ProviderTypeID string `json:"providerTypeId"`
	SpecialtyID    string `json:"specialtyId"`

	Neighborhood string `json:"neighborhood,omitempty"`
	Name         string `json:"name,omitempty"`
	Emergency    string `json:"emergency,omitempty"`
	Scheduled    string `json:"scheduled,omitempty"`
	ContractedID string `json:"contractedId,omitempty"`
}

// Validate returns an error if a required code is missing.
func (f Filter) Validate() error {
	switch {
	case f.PlanID == "":
		return Errorf(EINVALID, "plan required")
	case f.State == "":
		return Errorf(EINVALID, "state required")
	case f.CityID == "":
		return Errorf(EINVALID, "city required")
	case f.ProviderTypeID == "":
		return Errorf(EINVALID, "provider type required")
	case f.SpecialtyID == "":
		return Errorf(EINVALID, "specialty required")
	}
	return nil
}

// WithCity returns a copy of the filter targeting another city.
func (f Filter) WithCity(cityID string) Filter {
	f.CityID = cityID
	return f
}

// Parameters encodes the filter as the semicolon-delimited key:value string
// expected by the search endpoint.
func (f Filter) Parameters() string {
	var b strings.Builder
	writeParam(&b, "tipoConsulta", "1")
	writeParam(&b, "NroPlano", f.PlanID)
	writeParam(&b, "SglUF", f.State)
	writeParam(&b, "NroCidade", f.CityID)
	writeParam(&b, "NroTpoEstabelecimento", f.ProviderTypeID)
	writeParam(&b, "NroEspAtendimento", f.SpecialtyID)
	writeParam(&b, "Bairro", f.Neighborhood)
	writeParam(&b, "NmeFantasia", f.Name)
	writeParam(&b, "StaUrgEmerg", f.Emergency)
	writeParam(&b, "StaHoraMarcada", f.Scheduled)
	writeParam(&b, "NroContratado", f.ContractedID)
	return b.String()
}

func writeParam(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte(';')
}
