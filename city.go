package redecred

import "strings"

// CityIndex maps a padded municipality code to its principal city entry.
type CityIndex map[string]*City

// PrincipalCities collapses city entries sharing a municipality code into a
// single representative: the first entry without a parenthetical qualifier.
// Qualified entries name districts and never represent their municipality,
// so a municipality listed only with qualified names has no entry.
func PrincipalCities(cities []*City) CityIndex {
	idx := make(CityIndex, len(cities))
	for _, c := range cities {
		if isQualified(c.Name) {
			continue
		}
		code := PadMunicipality(c.MunicipalityID)
		if _, ok := idx[code]; !ok {
			idx[code] = c
		}
	}
	return idx
}

// Lookup returns the principal city of a municipality.
func (idx CityIndex) Lookup(municipalityID string) (*City, bool) {
	c, ok := idx[PadMunicipality(municipalityID)]
	return c, ok
}

func isQualified(name string) bool {
	return strings.Contains(name, "(")
}
