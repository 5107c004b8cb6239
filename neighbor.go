package redecred

import (
	"context"
	"strings"
)

// MunicipalityCodeLen is the length of an IBGE municipality code.
const MunicipalityCodeLen = 7

// Neighbor is a municipality sharing a border with another one.
type Neighbor struct {
	MunicipalityID string `json:"municipalityId"`
	Name           string `json:"name"`
}

// NeighborService looks up bordering municipalities.
type NeighborService interface {
	// FindNeighbors returns the neighbors of a municipality in reference
	// order. Unknown municipalities have no neighbors.
	FindNeighbors(ctx context.Context, municipalityID string) ([]*Neighbor, error)
}

// PadMunicipality left-pads a municipality code with zeros to seven digits.
func PadMunicipality(code string) string {
	code = strings.TrimSpace(code)
	if n := MunicipalityCodeLen - len(code); n > 0 {
		return strings.Repeat("0", n) + code
	}
	return code
}
