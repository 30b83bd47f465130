package app

import (
	"context"
	"fmt"
	"log/slog"

	"EclipseCast/internal/chainstore"
	"EclipseCast/internal/config"
	"EclipseCast/internal/infrastructure/catalog"
	"EclipseCast/internal/infrastructure/posterior"
	"EclipseCast/internal/infrastructure/storage"
	"EclipseCast/internal/logging"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/propagation"
	"EclipseCast/internal/randsrc"
	"EclipseCast/internal/results"
	"EclipseCast/internal/sampler"
	"EclipseCast/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	seeds  *randsrc.Factory
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		seeds:  randsrc.NewFactory(cfg.Sampler.Seed),
	}
}

// Run executes one batch over the configured catalog.
func (a *Application) Run(ctx context.Context) (usecase.RunReport, error) {
	source := catalog.NewCSVSource(a.cfg.Catalog.Path, a.logger.With("component", "catalog"))
	systems, err := source.Systems(ctx)
	if err != nil {
		return usecase.RunReport{}, err
	}
	if limit := a.cfg.Batch.Limit; limit > 0 && len(systems) > limit {
		systems = systems[:limit]
	}

	strategy, err := a.samplers().Resolve(a.cfg.Sampler.Name)
	if err != nil {
		return usecase.RunReport{}, err
	}

	repo, closeRepo, err := a.resultsRepository(ctx)
	if err != nil {
		return usecase.RunReport{}, err
	}
	defer closeRepo()

	archive, err := a.chainArchive()
	if err != nil {
		return usecase.RunReport{}, err
	}

	driver := usecase.NewDriver(usecase.DriverDeps{
		Sampler:         strategy,
		Computer:        propagation.NewComputer(nil),
		Results:         results.NewTable(repo),
		Chains:          chainstore.New(archive),
		Seeds:           a.seeds,
		Logger:          a.logger.With("component", "batch"),
		CheckpointEvery: a.cfg.Batch.CheckpointEvery,
	})
	return driver.Run(ctx, systems)
}

// Resummarize rebuilds the results table from the chain archive.
func (a *Application) Resummarize(ctx context.Context) (int, error) {
	repo, closeRepo, err := a.resultsRepository(ctx)
	if err != nil {
		return 0, err
	}
	defer closeRepo()

	archive, err := a.chainArchive()
	if err != nil {
		return 0, err
	}

	n, err := usecase.RebuildResults(ctx, archive, repo)
	if err != nil {
		return 0, err
	}
	a.logger.Info("results rebuilt from chains", "systems", n, "results", a.cfg.Results.Path)
	return n, nil
}

// Inspect summarizes the stored chain of one system.
func (a *Application) Inspect(ctx context.Context, name string) (usecase.ChainReport, error) {
	archive, err := a.chainArchive()
	if err != nil {
		return usecase.ChainReport{}, err
	}
	chains := chainstore.New(archive)
	if err := chains.Load(ctx); err != nil {
		return usecase.ChainReport{}, err
	}
	return usecase.InspectChain(chains, name)
}

func (a *Application) samplers() *sampler.Registry {
	registry := sampler.NewRegistry()
	registry.Register(posterior.NewCatalogSampler(a.cfg.Sampler.Draws, a.seeds, a.logger.With("component", "sampler.catalog")))
	if a.cfg.Sampler.Endpoint != "" {
		registry.Register(posterior.NewHTTPSampler(a.cfg.Sampler.Endpoint, a.cfg.Sampler.APIKey, a.cfg.Sampler.Draws, nil))
	}
	return registry
}

func (a *Application) resultsRepository(ctx context.Context) (ports.ResultsRepository, func(), error) {
	switch a.cfg.Results.Format {
	case config.ResultsFormatSQLite:
		repo, err := storage.OpenSQLiteResults(ctx, a.cfg.Results.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				a.logger.Warn("close results database", "error", err)
			}
		}, nil
	case config.ResultsFormatCSV:
		return storage.NewCSVResults(a.cfg.Results.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown results format %q", a.cfg.Results.Format)
	}
}

func (a *Application) chainArchive() (*storage.ChainArchive, error) {
	return storage.NewChainArchive(a.cfg.Chains.Path, a.cfg.Chains.Compression)
}
