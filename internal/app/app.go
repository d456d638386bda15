package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"NewsScanner/internal/config"
	"NewsScanner/internal/infrastructure/extractor"
	"NewsScanner/internal/infrastructure/feed"
	"NewsScanner/internal/infrastructure/scheduler"
	"NewsScanner/internal/infrastructure/storage"
	"NewsScanner/internal/logging"
	"NewsScanner/internal/readability"
	"NewsScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sql.DB
	facade  *usecase.ScanFacade
	sources *usecase.SourceService
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	articles := storage.NewArticleRepository(db)
	sources := storage.NewSourceRepository(db)

	rotator := extractor.NewRotator(cfg.Scan.UserAgents)
	client := extractor.NewClient(cfg.Extractor.URL, cfg.Scan.RequestTimeout,
		baseLogger.With("component", "extractor"))
	parser := feed.NewParser(rotator, cfg.Scan.RequestTimeout,
		baseLogger.With("component", "feed"))
	analyzer := readability.NewAnalyzer(baseLogger.With("component", "readability"))

	scanner := usecase.NewScanner(usecase.ScannerDeps{
		Feeds:        parser,
		Extractor:    client,
		Agents:       rotator,
		Analyzer:     analyzer,
		Articles:     articles,
		Sources:      sources,
		Logger:       baseLogger.With("component", "scanner"),
		MaxAttempts:  cfg.Scan.MaxAttempts,
		StaggerDelay: cfg.Scan.StaggerDelay,
		StaggerBatch: cfg.Scan.StaggerBatch,
	})

	facade := usecase.NewScanFacade(usecase.ScanFacadeDeps{
		Scanner:              scanner,
		Sources:              sources,
		Driver:               scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
		Logger:               baseLogger.With("component", "facade"),
		MaxConcurrentSources: cfg.Scan.MaxConcurrentSources,
	})

	sourceSvc := usecase.NewSourceService(usecase.SourceServiceDeps{
		Feeds:   parser,
		Sources: sources,
		Scanner: scanner,
		Logger:  baseLogger.With("component", "sources"),
	})

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		db:      db,
		facade:  facade,
		sources: sourceSvc,
	}, nil
}

// Sources exposes the feed management service.
func (a *Application) Sources() *usecase.SourceService {
	return a.sources
}

// Facade exposes the batch scan facade.
func (a *Application) Facade() *usecase.ScanFacade {
	return a.facade
}

// Run verifies the database, starts the scan schedule, and blocks until ctx
// is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := a.facade.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scanner started", "interval", a.cfg.Scheduler.Interval)

	<-ctx.Done()

	stopCtx := context.Background()
	if err := a.facade.Stop(stopCtx); err != nil {
		a.logger.Warn("stopping scheduler failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database failed", "error", err)
	}
	a.logger.Info("scanner stopped")
	return nil
}
