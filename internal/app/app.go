// Package app assembles the deadline service from configuration. Both the
// API server and the local mode of the prazo CLI build their runtime here so
// that store selection, seeding and cache wiring behave identically.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/internal/domain/conflict"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/redis"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/seed"
	"github.com/turtacn/PrazoCerto/internal/interfaces/http/handlers"
)

const purgeLockTTL = 30 * time.Second

// App holds the assembled runtime. Close releases every connection it opened.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics
	Service deadline.Service
	// Writer is the calendar store as a writer, used by ICS import.
	Writer calendar.Writer
	Courts *calendar.InMemoryCourtRegistry

	pool    *pgxpool.Pool
	redis   *redis.Client
	closers []func() error
}

// Option customises New.
type Option func(*options)

type options struct {
	collector prometheus.MetricsCollector
	noRedis   bool
}

// WithCollector registers the application metrics on c instead of a nop
// collector.
func WithCollector(c prometheus.MetricsCollector) Option {
	return func(o *options) { o.collector = c }
}

// WithoutRedis skips the shared result cache even when it is enabled in the
// configuration. One-shot CLI runs gain nothing from it.
func WithoutRedis() Option {
	return func(o *options) { o.noRedis = true }
}

// New opens the configured stores, seeds them and builds the service. On
// error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, log logging.Logger, opts ...Option) (a *App, err error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.collector == nil {
		o.collector = prometheus.NewNopCollector()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	a = &App{
		Config:  cfg,
		Logger:  log,
		Metrics: prometheus.NewAppMetrics(o.collector),
		Courts:  calendar.NewCourtRegistry(),
	}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	if cfg.Calendar.CourtsPath != "" {
		if _, err = seed.LoadCourtsFile(cfg.Calendar.CourtsPath, a.Courts, log); err != nil {
			return a, err
		}
	}

	if cfg.Calendar.Store == "postgres" || cfg.Catalog.Store == "postgres" {
		if a.pool, err = postgres.NewConnectionPool(ctx, cfg.Database.Postgres, log); err != nil {
			return a, err
		}
		pool := a.pool
		a.closers = append(a.closers, func() error { postgres.Close(pool); return nil })
	}

	store, storeName, err := a.calendarStore(ctx)
	if err != nil {
		return a, err
	}
	a.Writer = store

	cat, source, err := a.catalog(ctx)
	if err != nil {
		return a, err
	}

	deps := deadline.Deps{
		Store:         store,
		StoreName:     storeName,
		Courts:        a.Courts,
		Catalog:       cat,
		CatalogSource: source,
		Engine:        computation.NewEngine(computation.WithMaxIterations(cfg.Engine.MaxIterations)),
		Metrics:       a.Metrics,
		Logger:        log,
	}
	if deps.Snapshots, err = deadline.NewSnapshotCache(store, storeName, cfg.Calendar.SnapshotCacheSize, a.Metrics, log); err != nil {
		return a, err
	}
	loc, err := time.LoadLocation(cfg.Calendar.Location)
	if err != nil {
		return a, fmt.Errorf("calendar location: %w", err)
	}
	deps.Detector = conflict.NewDetector(
		conflict.WithSnapshots(deps.Snapshots),
		conflict.WithWeeklyThreshold(cfg.Conflict.WeeklyThreshold),
		conflict.WithConcurrency(cfg.Conflict.Concurrency),
		conflict.WithLocation(loc),
		conflict.WithLogger(log),
	)

	if cfg.Cache.Redis.Enabled && !o.noRedis {
		if a.redis, err = redis.NewClient(cfg.Cache.Redis, log); err != nil {
			return a, err
		}
		a.closers = append(a.closers, a.redis.Close)
		deps.Results = redis.NewRedisCache(a.redis, log,
			redis.WithPrefix(cfg.Cache.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Cache.Redis.DefaultTTL))
		deps.PurgeLock = redis.NewMutex(a.redis, "calendar-purge", purgeLockTTL)
	}

	a.Service, err = deadline.NewService(deadline.Config{
		DefaultCourt:    cfg.Calendar.DefaultCourt,
		LookaheadDays:   cfg.Calendar.LookaheadDays,
		ResultCacheSize: cfg.Engine.ResultCacheSize,
		ResultTTL:       cfg.Cache.Redis.DefaultTTL,
	}, deps)
	if err != nil {
		return a, err
	}
	log.Info("deadline service ready",
		logging.String("calendar_store", storeName),
		logging.String("catalog_store", cfg.Catalog.Store),
		logging.Int("courts", len(a.Courts.List())),
		logging.Bool("shared_cache", deps.Results != nil))
	return a, nil
}

// calendarStore opens the calendar store and loads the generated and seeded
// calendars into it. Seeding is idempotent so restarts against Postgres only
// add what is missing.
func (a *App) calendarStore(ctx context.Context) (calendar.ReadWriter, string, error) {
	cfg := a.Config.Calendar
	var (
		store calendar.ReadWriter
		name  string
	)
	if cfg.Store == "postgres" {
		store, name = repositories.NewCalendarRepository(a.pool, a.Logger), "postgres"
	} else {
		store, name = calendar.NewMemoryStore(), "memory"
	}

	added, err := calendar.SeedNational(ctx, store, cfg.NationalFromYear, cfg.NationalToYear)
	if err != nil {
		return nil, "", err
	}
	for _, c := range a.Courts.List() {
		if c.Tier != calendar.TierFederal {
			continue
		}
		n, err := calendar.SeedFederalJustice(ctx, store, c.Code, cfg.NationalFromYear, cfg.NationalToYear)
		if err != nil {
			return nil, "", err
		}
		added += n
	}
	for _, code := range cfg.OptionalClosureCourts {
		n, err := calendar.SeedOptionalClosures(ctx, store, code, cfg.NationalFromYear, cfg.NationalToYear)
		if err != nil {
			return nil, "", err
		}
		added += n
	}
	if cfg.SeedPath != "" {
		n, err := seed.LoadCalendarFile(ctx, cfg.SeedPath, seed.YearWindow(cfg.NationalFromYear, cfg.NationalToYear), store, a.Logger)
		if err != nil {
			return nil, "", err
		}
		added += n
	}
	a.Logger.Info("calendar seeded",
		logging.String("store", name),
		logging.Int("added", added),
		logging.Int("from_year", cfg.NationalFromYear),
		logging.Int("to_year", cfg.NationalToYear))
	return store, name, nil
}

// catalog loads the deadline catalog. The Postgres table is filled with the
// built-in entries on first use.
func (a *App) catalog(ctx context.Context) (*catalog.InMemoryCatalog, catalog.Source, error) {
	var source catalog.Source
	if a.Config.Catalog.Store == "postgres" {
		repo := repositories.NewCatalogRepository(a.pool, a.Logger)
		entries, err := repo.LoadEntries(ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(entries) == 0 {
			if err := repo.Upsert(ctx, catalog.SeedEntries()); err != nil {
				return nil, nil, err
			}
		}
		source = repo
	} else {
		source = seed.NewCatalogSource(a.Config.Catalog.SeedPath)
	}

	entries, err := source.LoadEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.New(entries)
	if err != nil {
		return nil, nil, err
	}
	return cat, source, nil
}

// HealthCheckers returns one readiness probe per external dependency.
func (a *App) HealthCheckers() []handlers.HealthChecker {
	checkers := []handlers.HealthChecker{
		handlers.CheckFunc{ComponentName: "calendar", Fn: a.Service.Ready},
	}
	if a.pool != nil {
		pool := a.pool
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "postgres", Fn: func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool, a.Logger)
		}})
	}
	if a.redis != nil {
		checkers = append(checkers, handlers.CheckFunc{ComponentName: "redis", Fn: a.redis.Ping})
	}
	return checkers
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", logging.Err(err))
		}
	}
	a.closers = nil
}

//Personal.AI order the ending
