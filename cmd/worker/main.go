package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/adapters/event"
	"github.com/khoahotran/career-studio/adapters/media_storage"
	"github.com/khoahotran/career-studio/adapters/persistence"
	"github.com/khoahotran/career-studio/internal/application/service"
	portfolioUC "github.com/khoahotran/career-studio/internal/application/usecase/portfolio"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
	"github.com/khoahotran/career-studio/pkg/metrics"
	"github.com/khoahotran/career-studio/pkg/tracing"
)

// metricsPort serves the worker's /metrics endpoint.
const metricsPort = ":9091"

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("FATAL: cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel).Named("worker")
	defer appLogger.Sync()
	appLogger.Info("Starting Career Studio Worker...")

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "career-studio-worker")
	if err != nil {
		appLogger.Fatal("Cannot initialize tracing", err)
	}
	defer shutdownTracing(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Snapshot storage
	store, err := media_storage.NewSnapshotStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize snapshot store", err)
	}

	// Worker Use Case
	publishSnapshotUC := portfolioUC.NewPublishSnapshotUseCase(
		persistence.NewPostgresPortfolioRepo(dbPool, appLogger),
		store,
		persistence.NewRedisCache(redisClient),
		cfg.Storage.Folder,
		appLogger,
	)

	appMetrics := metrics.New()
	metricsSrv := &http.Server{Addr: metricsPort, Handler: appMetrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server stopped", err)
		}
	}()

	// Kafka Consumer
	consumer := event.NewPortfolioConsumer(cfg, appLogger)
	defer consumer.Close()

	err = consumer.Run(ctx, func(ctx context.Context, ev service.PortfolioEvent) error {
		appLogger.Info("Processing portfolio event",
			zap.String("event_type", string(ev.EventType)),
			zap.String("owner_id", ev.OwnerID.String()))
		err := publishSnapshotUC.Execute(ctx, ev)
		appMetrics.ObserveSnapshot(err)
		return err
	})
	if err != nil {
		appLogger.Error("Consumer stopped with error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	metricsSrv.Shutdown(shutdownCtx)
	appLogger.Info("Worker exited")
}
