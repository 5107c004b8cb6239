package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redecred/redecred"
	"github.com/redecred/redecred/cache"
	redehttp "github.com/redecred/redecred/http"
	"github.com/redecred/redecred/ibge"
	"github.com/redecred/redecred/prometheus"
	"github.com/redecred/redecred/search"
	"github.com/redecred/redecred/server"
	redeslog "github.com/redecred/redecred/slog"
	"github.com/redecred/redecred/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds the interactive prompts.
	Stdin io.Reader

	// EnvFile is loaded into the environment before flags are parsed.
	// A missing file is ignored.
	EnvFile string

	// SQLite database backing the memo cache.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil, the HTTP and file-backed
	// implementations are used.
	Catalog   redecred.CatalogService
	Searcher  redecred.ProviderSearcher
	Neighbors redecred.NeighborService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:   os.Stdin,
		EnvFile: ".env",
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
		}
	}

	deps := &Dependencies{
		Ctx:     ctx,
		Stdin:   m.Stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Session: uuid.NewString(),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("redecred"),
		kong.Description("Search the GEAP accredited provider network."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{
			"default_base_url":       redehttp.DefaultBaseURL,
			"default_neighbors_file": ibge.DefaultPath,
			"default_cache_db":       sqlite.MemoryPath,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'redecred --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if err := cli.Config.Validate(); err != nil {
		return err
	}

	level, _ := parseLevel(cli.LogLevel)
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("session", deps.Session)

	m.DB = sqlite.NewDB(cli.CacheDB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set REDECRED_CACHE_DB to use a different cache database")
		return fmt.Errorf("failed to open cache database at %q: %w", cli.CacheDB, err)
	}
	defer m.Close()

	deps.Registry = prom.NewRegistry()
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = prometheus.NewMetrics(deps.Registry)

	deps.Cache = sqlite.NewCacheStore(m.DB, deps.Session)
	store := redeslog.NewLoggingCacheStore(deps.Cache, deps.Logger)

	client := redehttp.NewClient(
		redehttp.WithBaseURL(strings.TrimRight(cli.BaseURL, "/")),
		redehttp.WithTimeout(cli.Timeout),
		redehttp.WithRateLimit(cli.RateLimit),
	)

	var catalog redecred.CatalogService = redehttp.NewCatalogService(client)
	if m.Catalog != nil {
		catalog = m.Catalog
	}
	var searcher redecred.ProviderSearcher = redehttp.NewProviderSearcher(client)
	if m.Searcher != nil {
		searcher = m.Searcher
	}
	var neighbors redecred.NeighborService = ibge.NewNeighborTable(cli.NeighborsFile)
	if m.Neighbors != nil {
		neighbors = m.Neighbors
	}
	if counter, ok := neighbors.(server.NeighborCounter); ok {
		deps.Reference = counter
	}

	catalog = prometheus.NewCatalogService(catalog, deps.Metrics)
	catalog = redeslog.NewLoggingCatalogService(catalog, deps.Logger)
	deps.Catalog = cache.NewCatalogService(catalog, store)

	searcher = prometheus.NewProviderSearcher(searcher, deps.Metrics)
	searcher = redeslog.NewLoggingProviderSearcher(searcher, deps.Logger)

	deps.Neighbors = redeslog.NewLoggingNeighborService(neighbors, deps.Logger)
	deps.Store = store

	deps.Runner = &search.Runner{
		Paginator: &search.Paginator{Searcher: searcher, PageSize: redecred.DefaultPageSize},
		Catalog:   deps.Catalog,
		Neighbors: deps.Neighbors,
	}

	return kongCtx.Run(deps)
}

// parseLevel maps a --log-level value to a slog level.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, redecred.Errorf(redecred.EINVALID, "unknown log level %q", s)
	}
	return level, nil
}
