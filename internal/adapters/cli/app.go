package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/andrescamacho/factory-planner/internal/adapters/catalogfile"
	adapterlogging "github.com/andrescamacho/factory-planner/internal/adapters/logging"
	"github.com/andrescamacho/factory-planner/internal/adapters/metrics"
	"github.com/andrescamacho/factory-planner/internal/adapters/persistence"
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	planningCmd "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/application/setup"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/internal/infrastructure/config"
	"github.com/andrescamacho/factory-planner/internal/infrastructure/database"
)

// app holds everything one CLI invocation needs
type app struct {
	cfg      *config.Config
	logger   *adapterlogging.SlogLogger
	mediator mediator.Mediator
	db       *gorm.DB
}

// newApp loads configuration, opens the catalog backend and registers every
// handler with the mediator
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if catalogBackend != "" {
		cfg.Catalog.Backend = catalogBackend
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if metricsFile != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.TextfilePath = metricsFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := adapterlogging.NewSlogLoggerFromConfig(&cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	repo, err := a.openCatalog()
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	var requestCollector *metrics.RequestMetricsCollector
	if cfg.Metrics.Enabled {
		requestCollector, err = initMetrics()
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	med := mediator.NewMediator()
	med.RegisterMiddleware(metrics.PrometheusMiddleware(requestCollector))
	if err := registerHandlers(med, repo, cfg); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.mediator = med

	return a, nil
}

func (a *app) openCatalog() (production.CatalogRepository, error) {
	if a.cfg.Catalog.Backend == "files" {
		return catalogfile.NewRepository(a.cfg.Catalog.DataDir, a.cfg.Catalog.ResourcesFile, a.cfg.Catalog.RecipesFile), nil
	}

	if a.cfg.Database.Type == "sqlite" && a.cfg.Database.Path != "" && a.cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := database.NewConnection(&a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	a.db = db
	return persistence.NewGormCatalogRepository(db), nil
}

func initMetrics() (*metrics.RequestMetricsCollector, error) {
	metrics.InitRegistry()

	planningCollector := metrics.NewPlanningMetricsCollector()
	if err := planningCollector.Register(); err != nil {
		return nil, fmt.Errorf("failed to register planning metrics: %w", err)
	}
	metrics.SetGlobalPlanningCollector(planningCollector)

	requestCollector := metrics.NewRequestMetricsCollector()
	if err := requestCollector.Register(); err != nil {
		return nil, fmt.Errorf("failed to register request metrics: %w", err)
	}
	return requestCollector, nil
}

func registerHandlers(med mediator.Mediator, repo production.CatalogRepository, cfg *config.Config) error {
	files := catalogfile.NewStore(cfg.Catalog.ResourcesFile, cfg.Catalog.RecipesFile)
	settings := planningCmd.PlannerSettings{
		MaxDepth:         cfg.Planner.MaxDepth,
		ScaleMaxDepth:    cfg.Planner.ScaleMaxDepth,
		MaxScalePasses:   cfg.Planner.MaxScalePasses,
		IntegerScales:    cfg.Planner.IntegerScales,
		DetectCycles:     cfg.Planner.DetectCycles,
		AlternativeOrder: planning.AlternativeOrder(cfg.Planner.AlternativeOrder),
	}

	registry := setup.NewHandlerRegistry(repo, files, settings, shared.NewRealClock())
	if err := registry.RegisterAll(med); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// send dispatches request with the app logger in the context
func (a *app) send(request mediator.Request) (mediator.Response, error) {
	ctx := logging.WithLogger(context.Background(), a.logger)
	return a.mediator.Send(ctx, request)
}

// Close flushes metrics and releases the catalog backend and the log file
func (a *app) Close() error {
	var firstErr error
	if a.cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.logger.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// withApp runs fn with a fresh app and closes it afterwards
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	runErr := fn(a)
	closeErr := a.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}
