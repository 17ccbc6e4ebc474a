package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain/scoring"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/platform/postgres"
	"github.com/taskhive/taskhive/internal/service"
)

// application holds the fully wired service graph and the background
// machinery that has to be started and stopped together.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *sql.DB
	cacheSvc    *cache.Service
	refresher   *cache.Refresher
	coordinator *cache.Coordinator
	emitter     events.EventEmitter
	performance service.PerformanceService

	httpServer *http.Server
}

// newApplication builds the service graph from configuration. Nothing
// is started here; Run owns the lifecycle.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	// Cache machinery: policy table, prometheus counters, background
	// refresher, and the service itself.
	promMetrics := cache.NewPromMetrics(prometheus.DefaultRegisterer)

	refresher := cache.NewRefresher(cache.RefresherConfig{
		WorkerCount: cfg.Cache.RefreshWorkers,
		QueueSize:   cfg.Cache.RefreshQueueSize,
	}, appLogger)
	refresher.SetPromMetrics(promMetrics)

	cacheSvc := cache.NewService(cache.DefaultPolicyTable(), appLogger,
		cache.WithRefresher(refresher),
		cache.WithPromMetrics(promMetrics),
		cache.WithSweepInterval(time.Duration(cfg.Cache.SweepIntervalSeconds)*time.Second),
		cache.WithTopKeyLimit(cfg.Cache.TopKeyLimit),
	)

	coordinator := cache.NewCoordinator(cacheSvc, appLogger)

	// Persistence layer and its service-facing adapters.
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	teamStore := postgres.NewPostgresTeamStore(db, appLogger)
	scoreStore := postgres.NewPostgresScoreStore(db, appLogger)

	scorer := scoring.NewServiceWithParams(scoring.NewParams(scoring.ParamsConfig{
		HighPriorityPoints:   cfg.Scoring.HighPriorityPoints,
		MediumPriorityPoints: cfg.Scoring.MediumPriorityPoints,
		LowPriorityPoints:    cfg.Scoring.LowPriorityPoints,
		EarlyBonusPerDay:     cfg.Scoring.EarlyBonusPerDay,
		LatePenaltyPerDay:    cfg.Scoring.LatePenaltyPerDay,
		OverduePenaltyPerDay: cfg.Scoring.OverduePenaltyPerDay,
	}))

	performance, err := service.NewPerformanceService(
		service.NewTaskRepositoryAdapter(taskStore),
		service.NewTeamRepositoryAdapter(teamStore),
		service.NewScoreRepositoryAdapter(scoreStore, db),
		scorer,
		cacheSvc,
		coordinator,
		appLogger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create performance service: %w", err)
	}

	// Mutation events fan out to cache invalidation first, then score
	// recomputation, in registration order.
	emitter := events.NewInMemoryEventEmitter(appLogger)
	emitter.RegisterHandler(events.NewCacheInvalidationHandler(coordinator, appLogger))
	emitter.RegisterHandler(events.NewRecomputeHandler(performance, appLogger))

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &application{
		cfg:    cfg,
		logger: appLogger,
		db:     db,

		cacheSvc:    cacheSvc,
		refresher:   refresher,
		coordinator: coordinator,
		emitter:     emitter,
		performance: performance,

		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run starts the background cache machinery and the HTTP listener,
// then blocks until the context is cancelled or the listener fails.
func (a *application) Run(ctx context.Context) error {
	a.refresher.Start()
	a.cacheSvc.Start()

	a.logger.Info("server starting",
		slog.Int("port", a.cfg.Server.Port),
		slog.Int("refresh_workers", a.cfg.Cache.RefreshWorkers),
		slog.Int("sweep_interval_seconds", a.cfg.Cache.SweepIntervalSeconds))

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("http server failed: %w", err)
	}

	a.shutdown()
	return nil
}

// shutdown stops the components in reverse dependency order.
func (a *application) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.cacheSvc.Stop()
	a.refresher.Stop()

	if err := a.db.Close(); err != nil {
		a.logger.Error("database close failed", slog.String("error", err.Error()))
	}

	a.logger.Info("server stopped")
}
