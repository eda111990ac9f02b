package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	httpAdapter "github.com/s18id/jurnapod-sub001/internal/adapter/http"
	"github.com/s18id/jurnapod-sub001/internal/adapter/http/handler"
	postgresRepo "github.com/s18id/jurnapod-sub001/internal/adapter/repository/postgres"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/config"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/logger"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/postgres"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/redis"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	hookMode, ok := usecase.ParseHookMode(cfg.SyncPostingMode)
	if !ok {
		log.Warn().Str("value", cfg.SyncPostingMode).Msg("unknown sync posting mode, falling back to disabled")
	}
	log.Info().Str("sync_posting_mode", string(hookMode)).Msg("sync posting hook configured")

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	reconRepo := postgresRepo.NewReconciliationRepository(pool)

	// Redis is optional; the ops server only needs it for readiness.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		log.Info().Msg("connected to redis")

		redisClient = client
	}

	// Use cases
	reconUC := usecase.NewReconciliationUseCase(reconRepo, m, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(pool, redisClient)
	reconHandler := handler.NewReconciliationHandler(reconUC)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HealthHandler:         healthHandler,
		ReconciliationHandler: reconHandler,
		Registry:              registry,
		Logger:                log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting ops server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
