// Package main is the entry point for solverd, the max-flow service.
//
// solverd computes the maximum flow between a source and a sink of a
// directed capacitated graph using the Ford-Fulkerson augmenting-path
// method, optionally refined with capacity scaling.
//
// # Service Overview
//
// The service exposes an HTTP/JSON API:
//
//	POST /api/v1/solve     - Compute the max flow of a graph
//	GET  /api/v1/runs      - List recorded solve runs (requires database)
//	GET  /api/v1/runs/{id} - Fetch one recorded solve run
//	GET  /healthz          - Health check
//
// # Architecture
//
// The service follows a layered design:
//
//	HTTP transport      internal/service/http.go
//	Orchestration       internal/service/solver.go
//	Conversion          internal/convert
//	Algorithm           internal/solver
//	Graph structure     internal/graph
//	History store       internal/history (PostgreSQL)
//
// # Configuration
//
// Configuration is loaded with the following priority (highest first):
//  1. Environment variables (prefix: FLOWNET_)
//  2. Config file (CONFIG_PATH, then config.yaml in standard locations)
//  3. Defaults from pkg/config/loader.go
//
// Key options (environment variable format):
//
//	FLOWNET_APP_ENVIRONMENT         - development, staging, production
//	FLOWNET_HTTP_PORT               - HTTP port (default: 8080)
//	FLOWNET_LOG_LEVEL               - debug, info, warn, error
//	FLOWNET_SOLVER_DEFAULT_ALGORITHM - ford_fulkerson or scaling
//	FLOWNET_SOLVER_DEFAULT_TRAVERSAL - dfs or bfs
//	FLOWNET_SOLVER_SOURCE_NAME      - default source vertex name (default: s)
//	FLOWNET_SOLVER_SINK_NAME        - default sink vertex name (default: t)
//	FLOWNET_CACHE_ENABLED           - enable result caching
//	FLOWNET_CACHE_DRIVER            - memory or redis
//	FLOWNET_DATABASE_ENABLED        - enable the history store
//	FLOWNET_RATE_LIMIT_ENABLED      - enable per-client rate limiting
//	FLOWNET_TRACING_ENABLED         - enable OpenTelemetry tracing
//	FLOWNET_METRICS_ENABLED         - enable Prometheus metrics
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM the server stops accepting connections, waits
// for in-flight requests up to http.shutdown_timeout, then flushes
// telemetry and closes the rate limiter, cache, and database pool.
package main

import (
	"context"
	"log"

	"flownet/internal/history"
	"flownet/internal/service"
	"flownet/pkg/cache"
	"flownet/pkg/config"
	"flownet/pkg/database"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
	"flownet/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)

	// Result cache is optional; the service runs without it.
	var solverCache *cache.SolverCache
	if cfg.Cache.Enabled {
		baseCache, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Log.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			defer baseCache.Close()
			solverCache = cache.NewSolverCache(baseCache, cfg.Cache.DefaultTTL)
			logger.Log.Info("Solver cache initialized",
				"driver", cfg.Cache.Driver,
				"ttl", cfg.Cache.DefaultTTL,
			)
		}
	}

	// History store is optional as well.
	var repo history.Repository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			logger.Log.Warn("Failed to connect to database, continuing without history", "error", err)
		} else {
			defer db.Close()

			if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database,
				history.Migrations, history.MigrationsDir); err != nil {
				logger.Log.Error("Failed to run migrations", "error", err)
			} else {
				repo = history.NewPostgresRepository(db)
				logger.Log.Info("History store initialized", "database", cfg.Database.Database)
			}
		}
	}

	srv := server.New(cfg)

	solverService := service.NewSolverService(cfg, solverCache, repo)
	handler := service.NewHandler(solverService, srv.RateLimiter())

	logger.Info("Starting solver service",
		"port", cfg.HTTP.Port,
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
		"cache_enabled", solverCache != nil,
		"history_enabled", repo != nil,
	)

	if err := srv.Run(handler.Routes()); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
