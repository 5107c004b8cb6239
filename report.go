package redecred

import (
	"encoding/json"
	"fmt"
)

// SearchError reports the page on which a provider search was aborted.
type SearchError struct {
	Label string
	Page  int
	Err   error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s page %d: %s", e.Label, e.Page, ErrorMessage(e.Err))
}

// Unwrap returns the underlying error.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// Section is the ordered result of one search: a single municipality with
// or without the reciprocity clause. Providers are kept in page order.
type Section struct {
	Label          string
	MunicipalityID string
	CityID         string
	Reciprocity    bool
	Providers      []*Provider
	Pages          int

	// Err is set when the search was cut short. Providers then holds the
	// pages fetched before the failure.
	Err error
}

// MarshalJSON encodes the section with its error as a message string.
func (s *Section) MarshalJSON() ([]byte, error) {
	providers := s.Providers
	if providers == nil {
		providers = []*Provider{}
	}
	var errMsg string
	if s.Err != nil {
		errMsg = s.Err.Error()
	}
	return json.Marshal(struct {
		Label          string      `json:"label"`
		MunicipalityID string      `json:"municipalityId,omitempty"`
		CityID         string      `json:"cityId"`
		Reciprocity    bool        `json:"reciprocity"`
		Providers      []*Provider `json:"providers"`
		Pages          int         `json:"pages"`
		Error          string      `json:"error,omitempty"`
	}{s.Label, s.MunicipalityID, s.CityID, s.Reciprocity, providers, s.Pages, errMsg})
}

// SkippedNeighbor is a neighbor that could not be searched.
type SkippedNeighbor struct {
	Neighbor
	Reason string `json:"reason"`
}

// Report is the outcome of a search with its neighbor expansion.
type Report struct {
	Filter   Filter             `json:"filter"`
	Sections []*Section         `json:"sections"`
	Skipped  []*SkippedNeighbor `json:"skipped"`
	Warnings []string           `json:"warnings"`
}

// ProviderCount returns the number of providers across all sections.
func (r *Report) ProviderCount() int {
	var n int
	for _, s := range r.Sections {
		n += len(s.Providers)
	}
	return n
}
