package main

import (
	"fmt"
	"strings"

	"github.com/redecred/redecred"
	"github.com/redecred/redecred/fold"
)

// Catalog commands print lookup failures and exit successfully, matching
// how the search degrades.

// Run executes the states command.
func (c *StatesCmd) Run(deps *Dependencies) error {
	states, err := deps.Catalog.FindStates(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}
	if len(states) == 0 {
		fmt.Fprintln(deps.Stdout, "No states found.")
		return nil
	}

	for _, s := range states {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", s.Code, s.Name)
	}
	return nil
}

// Run executes the cities command.
func (c *CitiesCmd) Run(deps *Dependencies) error {
	cities, err := deps.Catalog.FindCities(deps.Ctx, strings.ToUpper(c.State))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}

	var n int
	for _, city := range cities {
		if c.Query != "" && !fold.Contains(city.Name, c.Query) {
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", city.ID, city.MunicipalityID, city.Name)
		n++
	}
	if n == 0 {
		fmt.Fprintln(deps.Stdout, "No cities found.")
	}
	return nil
}

// Run executes the plans command.
func (c *PlansCmd) Run(deps *Dependencies) error {
	state := strings.ToUpper(c.State)
	cities, err := deps.Catalog.FindCities(deps.Ctx, state)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}

	city, ok := matchOption(cities, c.City, cityOption)
	if !ok {
		err := redecred.Errorf(redecred.ENOTFOUND, "city %q not found in %s", c.City, state)
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return err
	}

	plans, err := deps.Catalog.FindPlans(deps.Ctx, state, city.MunicipalityID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}
	if len(plans) == 0 {
		fmt.Fprintf(deps.Stdout, "No plans found for %s.\n", city.Name)
		return nil
	}

	for _, p := range plans {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", p.ID, p.Name)
	}
	return nil
}

// Run executes the types command.
func (c *TypesCmd) Run(deps *Dependencies) error {
	types, err := deps.Catalog.FindProviderTypes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}
	if len(types) == 0 {
		fmt.Fprintln(deps.Stdout, "No provider types found.")
		return nil
	}

	for _, t := range types {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", t.ID, t.Name)
	}
	return nil
}

// Run executes the specialties command.
func (c *SpecialtiesCmd) Run(deps *Dependencies) error {
	specialties, err := deps.Catalog.FindSpecialties(deps.Ctx, c.Plan, c.Type)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return nil
	}
	if len(specialties) == 0 {
		fmt.Fprintln(deps.Stdout, "No specialties found.")
		return nil
	}

	for _, s := range specialties {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", s.ID, s.Name)
	}
	return nil
}

// Run executes the neighbors command. A missing reference file is a
// configuration error and fails the command.
func (c *NeighborsCmd) Run(deps *Dependencies) error {
	neighbors, err := deps.Neighbors.FindNeighbors(deps.Ctx, c.Municipality)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return err
	}
	if len(neighbors) == 0 {
		fmt.Fprintf(deps.Stdout, "No neighbors found for %s.\n", redecred.PadMunicipality(c.Municipality))
		return nil
	}

	for _, n := range neighbors {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", n.MunicipalityID, n.Name)
	}
	return nil
}
