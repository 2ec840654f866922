package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"taskapi/internal/config"
	"taskapi/internal/logging"
	"taskapi/internal/server/handler"
	"taskapi/internal/server/middleware"
	"taskapi/internal/server/routes"
	"taskapi/internal/store"
	"taskapi/internal/store/memstore"
	"taskapi/internal/store/redisstore"
	"taskapi/internal/store/sqlitestore"
	"taskapi/internal/task"
	"taskapi/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := logging.New(cfg.LogLevel)

	tel, err := telemetry.Init(ctx, cfg)

	if err != nil {
		log.Fatal("Failed to initialize telemetry: ", err)
	}

	defer tel.Shutdown(ctx)

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)

	taskStore, err := openStore(cfg)

	if err != nil {
		log.Fatal("Failed to open task store: ", err)
	}

	validator, err := task.NewValidator()

	if err != nil {
		log.Fatal("Failed to build validator: ", err)
	}

	zapLogger, err := zap.NewProduction()

	if err != nil {
		log.Fatal("Failed to create access logger: ", err)
	}

	defer zapLogger.Sync()

	routerConfig := routes.Config{
		TaskHandler:     handler.NewTaskHandler(taskStore, validator, logger, metrics),
		HealthHandler:   handler.NewHealthHandler(taskStore),
		ServiceName:     cfg.ServiceName,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		AccessLogger:    otelzap.New(zapLogger),
		Metrics:         metrics,
		Registry:        tel.PrometheusRegistry,
	}

	if cfg.RateLimitEnabled {
		routerConfig.RateLimiter = middleware.NewRateLimiter(logger, metrics)
	}

	router := routes.SetupRouter(routerConfig)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", map[string]any{
			"port":   cfg.Port,
			"driver": cfg.StoreDriver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", err, nil)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "redis":
		return redisstore.New(cfg)
	case "sqlite":
		db, err := sqlitestore.Open(cfg.DatabasePath, cfg.MigrationsPath)

		if err != nil {
			return nil, err
		}

		return sqlitestore.New(db), nil
	default:
		return memstore.New(), nil
	}
}
