package search

import (
	"context"
	"fmt"

	"github.com/redecred/redecred"
)

// PrimaryLabel labels the section of the selected municipality.
const PrimaryLabel = "Primary municipality"

// reciprocitySuffix is appended to the label of reciprocity sections.
const reciprocitySuffix = " (reciprocity)"

// Request describes a search with its neighbor expansion.
type Request struct {
	Filter redecred.Filter

	// MunicipalityID is the municipality of Filter.CityID, used to find
	// neighbors.
	MunicipalityID string

	// SkipNeighbors disables the neighbor expansion.
	SkipNeighbors bool
}

// Runner runs the primary search, its reciprocity variant, and the same
// pair for every neighboring municipality, one after the other.
type Runner struct {
	Paginator *Paginator
	Catalog   redecred.CatalogService
	Neighbors redecred.NeighborService
}

// Run executes the request. Only an invalid filter is returned as an error;
// every other failure is recorded on the report and the run continues.
func (r *Runner) Run(ctx context.Context, req Request, progress ProgressFunc) (*redecred.Report, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	report := &redecred.Report{
		Filter:   req.Filter,
		Sections: []*redecred.Section{},
		Skipped:  []*redecred.SkippedNeighbor{},
		Warnings: []string{},
	}
	reciprocity := redecred.SupportsReciprocity(req.Filter.PlanID)
	municipalityID := redecred.PadMunicipality(req.MunicipalityID)

	r.searchMunicipality(ctx, report, PrimaryLabel, municipalityID, req.Filter, reciprocity, progress)

	if req.SkipNeighbors || r.Neighbors == nil || req.MunicipalityID == "" {
		return report, nil
	}

	neighbors, err := r.Neighbors.FindNeighbors(ctx, municipalityID)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("neighbor lookup failed: %s", redecred.ErrorMessage(err)))
		return report, nil
	}
	if len(neighbors) == 0 {
		return report, nil
	}

	cities, err := r.Catalog.FindCities(ctx, req.Filter.State)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("neighbor expansion skipped: %s", redecred.ErrorMessage(err)))
		return report, nil
	}
	index := redecred.PrincipalCities(cities)

	for _, n := range neighbors {
		city, ok := index.Lookup(n.MunicipalityID)
		if !ok || city.ID == "" || city.Name == "" {
			report.Skipped = append(report.Skipped, &redecred.SkippedNeighbor{
				Neighbor: redecred.Neighbor{MunicipalityID: redecred.PadMunicipality(n.MunicipalityID), Name: n.Name},
				Reason:   "no city code for municipality",
			})
			continue
		}
		r.searchMunicipality(ctx, report, city.Name, city.MunicipalityID, req.Filter.WithCity(city.ID), reciprocity, progress)
	}

	return report, nil
}

// searchMunicipality appends the section for one municipality and, when
// enabled, its reciprocity section.
func (r *Runner) searchMunicipality(ctx context.Context, report *redecred.Report, label, municipalityID string, filter redecred.Filter, reciprocity bool, progress ProgressFunc) {
	parameters := filter.Parameters()

	section := r.Paginator.Collect(ctx, label, parameters, progress)
	section.MunicipalityID = municipalityID
	section.CityID = filter.CityID
	report.Sections = append(report.Sections, section)

	if !reciprocity {
		return
	}

	section = r.Paginator.Collect(ctx, label+reciprocitySuffix, redecred.WithReciprocity(parameters), progress)
	section.MunicipalityID = municipalityID
	section.CityID = filter.CityID
	section.Reciprocity = true
	report.Sections = append(report.Sections, section)
}
