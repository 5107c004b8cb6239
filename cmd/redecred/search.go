package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/redecred/redecred"
	"github.com/redecred/redecred/mpb"
	"github.com/redecred/redecred/search"
)

// Run executes the search command. Each selector is resolved from its flag
// or asked interactively; a selector whose list cannot be loaded aborts the
// command since no search can be composed without it.
func (c *SearchCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx
	p := newPrompter(deps.Stdin, deps.Stderr)

	states, err := deps.Catalog.FindStates(ctx)
	if err != nil {
		return fail(deps, err)
	}
	state, err := choose(p, "state", c.State, states, stateOption)
	if err != nil {
		return fail(deps, err)
	}

	cities, err := deps.Catalog.FindCities(ctx, state.Code)
	if err != nil {
		return fail(deps, err)
	}
	city, err := choose(p, "city", c.City, cities, cityOption)
	if err != nil {
		return fail(deps, err)
	}

	plans, err := deps.Catalog.FindPlans(ctx, state.Code, city.MunicipalityID)
	if err != nil {
		return fail(deps, err)
	}
	plan, err := choose(p, "plan", c.Plan, plans, planOption)
	if err != nil {
		return fail(deps, err)
	}

	types, err := deps.Catalog.FindProviderTypes(ctx)
	if err != nil {
		return fail(deps, err)
	}
	providerType, err := choose(p, "provider type", c.Type, types, typeOption)
	if err != nil {
		return fail(deps, err)
	}

	specialties, err := deps.Catalog.FindSpecialties(ctx, plan.ID, providerType.ID)
	if err != nil {
		return fail(deps, err)
	}
	specialty, err := choose(p, "specialty", c.Specialty, specialties, specialtyOption)
	if err != nil {
		return fail(deps, err)
	}

	req := search.Request{
		Filter: redecred.Filter{
			PlanID:         plan.ID,
			State:          state.Code,
			CityID:         city.ID,
			ProviderTypeID: providerType.ID,
			SpecialtyID:    specialty.ID,
		},
		MunicipalityID: city.MunicipalityID,
		SkipNeighbors:  c.NoNeighbors,
	}

	var progress search.ProgressFunc
	var reporter *mpb.Reporter
	if !c.NoProgress && c.Format == "text" {
		reporter = mpb.NewReporter(deps.Stderr)
		progress = reporter.Progress
	}

	report, err := deps.Runner.Run(ctx, req, progress)
	if reporter != nil {
		reporter.Wait()
	}
	if err != nil {
		return fail(deps, err)
	}

	if c.Format == "json" {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	writeReport(deps.Stdout, deps.Stderr, report)
	return nil
}

// writeReport renders every section in order, followed by the problems met
// along the way on stderr.
func writeReport(stdout, stderr io.Writer, report *redecred.Report) {
	for _, s := range report.Sections {
		fmt.Fprintf(stdout, "== %s ==\n", s.Label)
		if len(s.Providers) == 0 {
			fmt.Fprintln(stdout, "No providers found.")
		} else {
			fmt.Fprint(stdout, redecred.FormatProviders(s.Providers))
		}
		if s.Err != nil {
			fmt.Fprintf(stderr, "error: %s\n", s.Err.Error())
		}
		fmt.Fprintln(stdout)
	}

	for _, n := range report.Skipped {
		fmt.Fprintf(stderr, "warning: skipped neighbor %s (%s): %s\n", n.Name, n.MunicipalityID, n.Reason)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	fmt.Fprintf(stdout, "%d %s in %d %s\n",
		report.ProviderCount(), plural(report.ProviderCount(), "provider"),
		len(report.Sections), plural(len(report.Sections), "section"))
}

func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

