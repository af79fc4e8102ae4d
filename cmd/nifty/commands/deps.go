package commands

import (
	"context"
	"fmt"

	"github.com/quantinfra/nifty500/internal/clean"
	"github.com/quantinfra/nifty500/internal/download"
	"github.com/quantinfra/nifty500/internal/marketdata/yahoo"
	"github.com/quantinfra/nifty500/internal/pipeline"
	"github.com/quantinfra/nifty500/internal/store"
	"github.com/quantinfra/nifty500/internal/universe"
	"github.com/quantinfra/nifty500/internal/warehouse"
	"github.com/quantinfra/nifty500/pkg/config"
	"github.com/quantinfra/nifty500/pkg/httputil"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// app holds the wired pipeline components shared by all commands.
type app struct {
	cfg          *config.Config
	logger       *logger.Logger
	store        *store.Store
	orchestrator *pipeline.Orchestrator
	warehouse    *warehouse.Repository
}

// initApp wires all pipeline components from config plus flag overrides.
func initApp(ctx context.Context) (*app, error) {
	// 1. Load config and apply flag overrides
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Artifact store
	st := store.New(cfg.DataDir, log)

	// 4. Ticker sources, tried in order
	sourceClient := httputil.New(log, cfg.Provider.Timeout).
		WithUserAgent(cfg.Sources.UserAgent)
	sources := []universe.Source{
		universe.NewNSESource(sourceClient, cfg.Sources.NSEConstituentsURL, log),
		universe.NewWikipediaSource(sourceClient, cfg.Sources.WikipediaURL, log),
		universe.NewStaticSource(log),
	}
	resolver := universe.NewResolver(sources, cfg.Pipeline.SourceDelay, log)

	// 5. Market data provider; the downloader owns the retry policy
	providerClient := httputil.New(log, cfg.Provider.Timeout).
		WithUserAgent(cfg.Sources.UserAgent).
		DisableRetry()
	provider := yahoo.New(providerClient, cfg.Provider.BaseURL, log)
	downloader := download.New(provider, cfg.Pipeline.MaxRetries, cfg.Pipeline.RequestDelay, log)

	// 6. Cleaner
	cleaner := clean.New(log)

	// 7. Optional warehouse sink
	var warehouseRepo *warehouse.Repository
	if cfg.Database.URL != "" {
		warehouseRepo, err = warehouse.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect to warehouse: %w", err)
		}
	}

	orch := pipeline.New(cfg, resolver, downloader, cleaner, st, warehouseRepo, log)

	return &app{
		cfg:          cfg,
		logger:       log,
		store:        st,
		orchestrator: orch,
		warehouse:    warehouseRepo,
	}, nil
}

// Close releases held resources.
func (a *app) Close() {
	if a.warehouse != nil {
		a.warehouse.Close()
	}
}

// applyFlags overrides config values with any set command-line flags.
func applyFlags(cfg *config.Config) {
	if startDate != "" {
		cfg.Pipeline.StartDate = startDate
	}
	if endDate != "" {
		cfg.Pipeline.EndDate = endDate
	}
	if maxRetries > 0 {
		cfg.Pipeline.MaxRetries = maxRetries
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}
