package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/redecred/redecred"
	"github.com/redecred/redecred/prometheus"
	"github.com/redecred/redecred/search"
	"github.com/redecred/redecred/server"
	"github.com/redecred/redecred/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Session string

	Catalog   redecred.CatalogService
	Neighbors redecred.NeighborService
	Runner    *search.Runner

	// Reference is the neighbor table when it can report its coverage.
	Reference server.NeighborCounter

	// Store is the memo cache as seen by the services; Cache is the
	// underlying SQLite store.
	Store redecred.CacheStore
	Cache *sqlite.CacheStore

	Registry *prom.Registry
	Metrics  *prometheus.Metrics
}

// Config holds the global flags.
type Config struct {
	BaseURL       string        `name:"base-url" env:"REDECRED_BASE_URL" default:"${default_base_url}" help:"Accredited network API base URL"`
	NeighborsFile string        `name:"neighbors-file" env:"REDECRED_NEIGHBORS_FILE" default:"${default_neighbors_file}" help:"IBGE bordering municipalities table (.xls workbook or CSV export)"`
	CacheDB       string        `name:"cache-db" env:"REDECRED_CACHE_DB" default:"${default_cache_db}" help:"SQLite database for cached lookups (:memory: keeps them for this run only)"`
	Timeout       time.Duration `env:"REDECRED_TIMEOUT" default:"10s" help:"Timeout per API request"`
	RateLimit     float64       `name:"rate-limit" env:"REDECRED_RATE_LIMIT" default:"0" help:"Maximum API requests per second (0 disables)"`
	LogLevel      string        `name:"log-level" env:"REDECRED_LOG_LEVEL" default:"warn" help:"Log level (debug, info, warn, error)"`
}

// Validate checks the flag values after parsing.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return redecred.Errorf(redecred.EINVALID, "base URL required")
	case c.Timeout <= 0:
		return redecred.Errorf(redecred.EINVALID, "timeout must be positive")
	case c.RateLimit < 0:
		return redecred.Errorf(redecred.EINVALID, "rate limit must not be negative")
	case c.CacheDB == "":
		return redecred.Errorf(redecred.EINVALID, "cache database required")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	States      StatesCmd      `cmd:"" help:"List states"`
	Cities      CitiesCmd      `cmd:"" help:"List the cities of a state"`
	Plans       PlansCmd       `cmd:"" help:"List the plans available in a city"`
	Types       TypesCmd       `cmd:"" help:"List provider types"`
	Specialties SpecialtiesCmd `cmd:"" help:"List the specialties of a plan and provider type"`
	Neighbors   NeighborsCmd   `cmd:"" help:"List the municipalities bordering a municipality"`
	Search      SearchCmd      `cmd:"" help:"Search accredited providers"`
	Cache       CacheCmd       `cmd:"" help:"Manage the lookup cache"`
	Serve       ServeCmd       `cmd:"" help:"Serve the JSON API"`
}

// StatesCmd is the "states" subcommand.
type StatesCmd struct{}

// CitiesCmd is the "cities" subcommand.
type CitiesCmd struct {
	State string `arg:"" help:"State code (UF)"`
	Query string `short:"q" help:"Only cities whose name contains this text"`
}

// PlansCmd is the "plans" subcommand.
type PlansCmd struct {
	State string `arg:"" help:"State code (UF)"`
	City  string `arg:"" help:"City id or name"`
}

// TypesCmd is the "types" subcommand.
type TypesCmd struct{}

// SpecialtiesCmd is the "specialties" subcommand.
type SpecialtiesCmd struct {
	Plan string `arg:"" help:"Plan id"`
	Type string `arg:"" help:"Provider type id"`
}

// NeighborsCmd is the "neighbors" subcommand.
type NeighborsCmd struct {
	Municipality string `arg:"" help:"IBGE municipality code"`
}

// SearchCmd is the "search" subcommand. Selectors left empty are asked
// interactively.
type SearchCmd struct {
	State       string `short:"s" help:"State code or name"`
	City        string `short:"c" help:"City id or name"`
	Plan        string `short:"p" help:"Plan id or name"`
	Type        string `short:"t" help:"Provider type id or name"`
	Specialty   string `short:"e" help:"Specialty id or name"`
	NoNeighbors bool   `name:"no-neighbors" help:"Do not search bordering municipalities"`
	Format      string `short:"f" default:"text" enum:"text,json" help:"Output format (text, json)"`
	NoProgress  bool   `name:"no-progress" help:"Hide progress bars"`
}

// CacheCmd groups the cache subcommands.
type CacheCmd struct {
	Purge CachePurgeCmd `cmd:"" help:"Remove every cached lookup"`
	Stats CacheStatsCmd `cmd:"" help:"Show cache size"`
}

// CachePurgeCmd is the "cache purge" subcommand.
type CachePurgeCmd struct{}

// CacheStatsCmd is the "cache stats" subcommand.
type CacheStatsCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string  `default:":8080" env:"REDECRED_ADDR" help:"Listen address"`
	ClientRate  float64 `name:"client-rate" default:"1" help:"Requests per second allowed per client"`
	ClientBurst int64   `name:"client-burst" default:"60" help:"Request burst allowed per client"`
	PurgeAt     string  `name:"purge-at" default:"03:00" help:"Daily cache purge time (HH:MM)"`
	NoRateLimit bool    `name:"no-rate-limit" help:"Disable per-client rate limiting"`
}
