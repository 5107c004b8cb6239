package redecred

import (
	"context"
	"strings"
)

// DefaultPageSize is the number of providers requested per search page.
const DefaultPageSize = 50

// Provider is the display projection of an accredited provider.
type Provider struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Specialties string `json:"specialties"`
}

// ProviderPage is one page of search results.
type ProviderPage struct {
	Providers  []*Provider
	TotalPages int

	// Malformed is set when the response carried no result envelope.
	// The page is then empty and pagination stops.
	Malformed bool
}

// ProviderSearcher fetches single pages of provider search results.
type ProviderSearcher interface {
	// SearchPage fetches the 1-based page of results for the encoded filter
	// parameters. A missing result envelope is not an error: it returns an
	// empty page with Malformed set.
	SearchPage(ctx context.Context, parameters string, page, pageSize int) (*ProviderPage, error)
}

// DisplayName returns the fantasy name, falling back to the contracted name.
func DisplayName(fantasyName, contractedName string) string {
	if fantasyName != "" {
		return fantasyName
	}
	return contractedName
}

// FormatAddress composes the "city / state / neighborhood" address line.
func FormatAddress(city, state, neighborhood string) string {
	return city + " / " + state + " / " + neighborhood
}

// JoinSpecialties joins specialty names for display.
func JoinSpecialties(names []string) string {
	return strings.Join(names, ", ")
}
