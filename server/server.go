// Package server exposes the catalog, neighbor and search operations as a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redecred/redecred"
	"github.com/redecred/redecred/prometheus"
	"github.com/redecred/redecred/search"
)

// ShutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const ShutdownTimeout = 15 * time.Second

// NeighborCounter reports how many municipalities the neighbor reference
// covers.
type NeighborCounter interface {
	Len() (int, error)
}

// Server serves the JSON API. Dependencies are set before the first call to
// Handler; Metrics, Gatherer, Limiter and Reference are optional.
type Server struct {
	Catalog   redecred.CatalogService
	Neighbors redecred.NeighborService
	Runner    *search.Runner
	Logger    *slog.Logger

	// Reference backs the neighbor coverage reported by /health.
	Reference NeighborCounter

	Metrics  *prometheus.Metrics
	Gatherer prom.Gatherer
	Limiter  *RateLimiter

	// Session identifies the process in health responses.
	Session string

	startedAt time.Time
	once      sync.Once
	handler   http.Handler
}

// Handler returns the routed handler, building it on first use.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		s.startedAt = time.Now()
		if s.Logger == nil {
			s.Logger = slog.New(slog.DiscardHandler)
		}
		s.handler = s.routes()
	})
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(s.Logger))
	r.Use(middleware.Recoverer)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}
	if s.Limiter != nil {
		r.Use(s.Limiter.Middleware)
	}

	r.Get("/states", s.handleStates)
	r.Get("/states/{uf}/cities", s.handleCities)
	r.Get("/states/{uf}/cities/{municipality}/plans", s.handlePlans)
	r.Get("/provider-types", s.handleProviderTypes)
	r.Get("/specialties", s.handleSpecialties)
	r.Get("/neighbors/{municipality}", s.handleNeighbors)
	r.Get("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("starting server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
