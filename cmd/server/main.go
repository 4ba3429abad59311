package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anish-u/insight-guard/internal/app"
	"github.com/anish-u/insight-guard/internal/app/graphview"
	"github.com/anish-u/insight-guard/internal/app/ingest"
	"github.com/anish-u/insight-guard/internal/config"
	"github.com/anish-u/insight-guard/internal/infra/http"
	"github.com/anish-u/insight-guard/internal/infra/http/handler"
	"github.com/anish-u/insight-guard/internal/infra/http/routes"
	"github.com/anish-u/insight-guard/internal/infra/postgres"
	"github.com/anish-u/insight-guard/internal/infra/redis"
	"github.com/anish-u/insight-guard/internal/infra/storage"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/validator"
)

// @title           InsightGuard API
// @version         1.0
// @description     Vulnerability scan ingestion and graph dashboard API

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// ==========================================================================
	// Configuration & Logger
	// ==========================================================================
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	// ==========================================================================
	// Infrastructure
	// ==========================================================================
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer closeWithLog(db, "database", log)
	log.Info("database connected")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", "error", err)
		return 1
	}

	redisClient, err := redis.New(&cfg.Redis, log)
	if err != nil {
		// Dashboards degrade to uncached reads without Redis.
		log.Warn("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	} else {
		defer closeWithLog(redisClient, "redis", log)
		log.Info("redis connected")
	}

	store := storage.NewStore(cfg.Upload.BaseDir)

	// ==========================================================================
	// Repositories & Services
	// ==========================================================================
	graphRepo := postgres.NewGraphRepository(db)
	scanRepo := postgres.NewScanRepository(db)
	obsRepo := postgres.NewObservationRepository(db)

	var weeklyCache, monthlyCache, deptCache app.PayloadCache
	if redisClient != nil {
		weeklyCache = newPayloadCache(redisClient, "dashboard:weekly", cfg, log)
		monthlyCache = newPayloadCache(redisClient, "dashboard:monthly_web", cfg, log)
		deptCache = newPayloadCache(redisClient, "dashboard:dept", cfg, log)
	}

	dashboardService := app.NewDashboardService(
		scanRepo, obsRepo,
		cfg.Dashboard.MaxObservations,
		weeklyCache, monthlyCache, deptCache,
		log,
	)
	analyticsService := app.NewAnalyticsService(scanRepo, obsRepo, cfg.Dashboard.GraphMaxObservations, log)
	ingestService := ingest.NewService(graphRepo, store, dashboardService, log)
	log.Info("services initialized")

	// ==========================================================================
	// Handlers & HTTP Server
	// ==========================================================================
	v := validator.New()

	healthOpts := []handler.HealthHandlerOption{handler.WithDatabase(db)}
	if redisClient != nil {
		healthOpts = append(healthOpts, handler.WithRedis(redisClient))
	}

	handlers := routes.Handlers{
		Health:    handler.NewHealthHandler(healthOpts...),
		Ingest:    handler.NewIngestHandler(ingestService, v, log),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
		Analytics: handler.NewAnalyticsHandler(analyticsService, v, log),
	}

	server := http.NewServer(cfg, log)
	routes.Register(server.Router(), handlers)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	// ==========================================================================
	// Graceful Shutdown
	// ==========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("application stopped")
	return 0
}

// newPayloadCache builds one dashboard payload cache. Construction only
// fails on an empty prefix, so a failure just disables that cache.
func newPayloadCache(client *redis.Client, prefix string, cfg *config.Config, log *logger.Logger) app.PayloadCache {
	c, err := redis.NewCache[graphview.Payload](client, prefix, cfg.Dashboard.CacheTTL)
	if err != nil {
		log.Error("failed to build cache, continuing without it", "prefix", prefix, "error", err)
		return nil
	}
	return c
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
