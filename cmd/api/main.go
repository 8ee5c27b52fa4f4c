package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/lorrc/ticket-insights/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/redis"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/tabular"
	"github.com/lorrc/ticket-insights/internal/config"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
	"github.com/lorrc/ticket-insights/internal/infrastructure/storage"
	"github.com/lorrc/ticket-insights/internal/session"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Open the record store
	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open record store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	// 4. Optional dashboard cache; the service runs without it
	var (
		cache     ports.DashboardCache
		cacheDeps []httpAdapter.Dependency
	)
	if cfg.Cache.Enabled {
		rc := redis.NewDashboardCache(redis.Config{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		defer func() { _ = rc.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			logger.Warn("dashboard cache unreachable, continuing without it", "addr", cfg.Cache.Addr, "error", err)
		} else {
			cache = rc
			logger.Info("dashboard cache connected", "addr", cfg.Cache.Addr)
		}
		cancel()
		cacheDeps = append(cacheDeps, httpAdapter.Dependency{Name: "cache", Checker: rc})
	}

	// 5. Real-time push and session state
	hub := websocket.NewHub(websocket.Config{
		PingInterval: cfg.WebSocket.PingInterval,
		PongWait:     cfg.WebSocket.PongWait,
	}, logger)
	go hub.Run(ctx)

	state := session.NewState(hub, logger)

	// 6. Services (Core)
	ingestService := services.NewIngestService(tabular.NewReader(), store, logger)
	dashboardService := services.NewDashboardService(cache, logger)

	if cfg.App.LoadOnStartup {
		ds, err := ingestService.LoadFromStore(ctx)
		switch {
		case errors.Is(err, apperrors.ErrNoDataLoaded):
			logger.Info("record store is empty, waiting for an upload")
		case err != nil:
			logger.Warn("failed to restore dataset from store", "error", err)
		default:
			state.Replace(ds)
			logger.Info("dataset restored from store", "dataset_id", ds.ID, "tickets", ds.Len())
		}
	}

	// 7. Rate Limiters
	var generalRateLimiter, uploadRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		uploadRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.UploadRPS,
			BurstSize:         cfg.RateLimit.UploadBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
		defer uploadRateLimiter.Stop()
	}

	// 8. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	healthDeps := append([]httpAdapter.Dependency{{Name: "store", Checker: store, Critical: true}}, cacheDeps...)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Dataset:        httpAdapter.NewDatasetHandler(ingestService, state, cfg.Upload.MaxBytes, errorHandler, logger),
		Dashboard:      httpAdapter.NewDashboardHandler(dashboardService, state, errorHandler, logger),
		WebSocket:      httpAdapter.NewWebSocketHandler(hub, cfg.WebSocket, cfg.IsDevelopment(), logger),
		Health:         httpAdapter.NewHealthHandler(cfg.App.Version, state.Loaded, healthDeps...),
		GeneralLimiter: generalRateLimiter,
		UploadLimiter:  uploadRateLimiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.CORS.MaxAge,
		Logger:         logger,
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
