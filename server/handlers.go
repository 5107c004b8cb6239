package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redecred/redecred"
	"github.com/redecred/redecred/fold"
	"github.com/redecred/redecred/search"
)

// listResponse is the body of every catalog endpoint. A failed upstream
// lookup is reported in Error with an empty list.
type listResponse[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

func respondWithList[T any](w http.ResponseWriter, items []T, err error) {
	resp := listResponse[T]{Items: items}
	if err != nil {
		resp.Items = nil
		resp.Error = redecred.ErrorMessage(err)
	}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.Catalog.FindStates(r.Context())
	respondWithList(w, states, err)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	uf := strings.ToUpper(chi.URLParam(r, "uf"))
	cities, err := s.Catalog.FindCities(r.Context(), uf)

	if q := r.URL.Query().Get("q"); q != "" && err == nil {
		matched := make([]*redecred.City, 0, len(cities))
		for _, c := range cities {
			if fold.Contains(c.Name, q) {
				matched = append(matched, c)
			}
		}
		cities = matched
	}
	respondWithList(w, cities, err)
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	uf := strings.ToUpper(chi.URLParam(r, "uf"))
	municipality := chi.URLParam(r, "municipality")
	if !isDigits(municipality) {
		respondWithError(w, http.StatusBadRequest, "municipality must be numeric")
		return
	}

	plans, err := s.Catalog.FindPlans(r.Context(), uf, redecred.PadMunicipality(municipality))
	respondWithList(w, plans, err)
}

func (s *Server) handleProviderTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.Catalog.FindProviderTypes(r.Context())
	respondWithList(w, types, err)
}

func (s *Server) handleSpecialties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plan, providerType := q.Get("plan"), q.Get("type")
	if plan == "" || providerType == "" {
		respondWithError(w, http.StatusBadRequest, "plan and type are required")
		return
	}

	specialties, err := s.Catalog.FindSpecialties(r.Context(), plan, providerType)
	respondWithList(w, specialties, err)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	municipality := chi.URLParam(r, "municipality")
	if !isDigits(municipality) {
		respondWithError(w, http.StatusBadRequest, "municipality must be numeric")
		return
	}

	neighbors, err := s.Neighbors.FindNeighbors(r.Context(), municipality)
	respondWithList(w, neighbors, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := redecred.Filter{
		PlanID:         q.Get("plan"),
		State:          strings.ToUpper(q.Get("state")),
		CityID:         q.Get("city"),
		ProviderTypeID: q.Get("type"),
		SpecialtyID:    q.Get("specialty"),
		Neighborhood:   q.Get("neighborhood"),
		Name:           q.Get("name"),
	}
	if err := filter.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, redecred.ErrorMessage(err))
		return
	}

	withNeighbors := true
	if v := q.Get("neighbors"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "neighbors must be a boolean")
			return
		}
		withNeighbors = b
	}

	req := search.Request{Filter: filter, SkipNeighbors: !withNeighbors}
	var warnings []string
	if withNeighbors {
		municipalityID, warning := s.resolveMunicipality(r, filter)
		req.MunicipalityID = municipalityID
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}

	report, err := s.Runner.Run(r.Context(), req, nil)
	if err != nil {
		respondWithError(w, statusFor(err), redecred.ErrorMessage(err))
		return
	}
	if len(warnings) > 0 {
		report.Warnings = append(warnings, report.Warnings...)
	}
	respondWithJSON(w, http.StatusOK, report)
}

// resolveMunicipality finds the municipality of the selected city, which the
// neighbor expansion needs. Failure is returned as a warning.
func (s *Server) resolveMunicipality(r *http.Request, filter redecred.Filter) (string, string) {
	cities, err := s.Catalog.FindCities(r.Context(), filter.State)
	if err != nil {
		return "", "neighbor expansion skipped: " + redecred.ErrorMessage(err)
	}
	for _, c := range cities {
		if c.ID == filter.CityID {
			return c.MunicipalityID, ""
		}
	}
	return "", "neighbor expansion skipped: city " + filter.CityID + " not listed for " + filter.State
}

type healthResponse struct {
	Status         string `json:"status"`
	Session        string `json:"session,omitempty"`
	Uptime         string `json:"uptime"`
	Clients        int    `json:"rate_limited_clients"`
	Municipalities int    `json:"neighbor_municipalities"`
	ReferenceError string `json:"neighbor_reference_error,omitempty"`
}

// handleHealth always answers 200. An unreadable neighbor reference only
// disables the expansion, so it degrades the status instead of failing it.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Session: s.Session,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
	}
	if s.Limiter != nil {
		resp.Clients = s.Limiter.Len()
	}
	if s.Reference != nil {
		n, err := s.Reference.Len()
		if err != nil {
			resp.Status = "degraded"
			resp.ReferenceError = redecred.ErrorMessage(err)
		}
		resp.Municipalities = n
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
