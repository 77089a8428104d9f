package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/adapters/event"
	httpAdapter "github.com/khoahotran/career-studio/adapters/http"
	"github.com/khoahotran/career-studio/adapters/persistence"
	authUC "github.com/khoahotran/career-studio/internal/application/usecase/auth"
	portfolioUC "github.com/khoahotran/career-studio/internal/application/usecase/portfolio"
	studioUC "github.com/khoahotran/career-studio/internal/application/usecase/studio"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/auth"
	"github.com/khoahotran/career-studio/pkg/logger"
	"github.com/khoahotran/career-studio/pkg/metrics"
	"github.com/khoahotran/career-studio/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("FATAL: cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel).Named("api")
	defer appLogger.Sync()
	appLogger.Info("Starting Career Studio API Server...", zap.String("env", cfg.App.Env))

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "career-studio-api")
	if err != nil {
		appLogger.Fatal("Cannot initialize tracing", err)
	}
	defer shutdownTracing(context.Background())

	appMetrics := metrics.New()

	// Initialize dependencies
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

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories and stores
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	publicCache := persistence.NewRedisCache(redisClient)

	var sessions studio.Store
	switch cfg.Studio.SessionDriver {
	case "memory":
		sessions = persistence.NewMemorySessionStore()
	default:
		sessions = persistence.NewRedisSessionStore(redisClient, cfg.Studio.SessionTTL)
	}
	appLogger.Info("Studio sessions configured",
		zap.String("driver", cfg.Studio.SessionDriver),
		zap.String("id_strategy", cfg.Studio.IDStrategy))

	sections := portfolio.NewSections(collection.NewIDSource(cfg.Studio.IDStrategy))

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	sessionUseCase := studioUC.NewSessionUseCase(portfolioRepo, sessions, sections, appLogger)
	entryUseCase := studioUC.NewEntryUseCase(sessions, sections, appMetrics)
	settingsUseCase := studioUC.NewSettingsUseCase(sessions, appMetrics)
	reviewUseCase := studioUC.NewReviewDraftUseCase(sessions, sections)
	saveUseCase := studioUC.NewSaveDraftUseCase(portfolioRepo, sessions, kafkaClient, publicCache, appLogger)
	getPublicUseCase := portfolioUC.NewGetPublicPortfolioUseCase(portfolioRepo, publicCache, cfg.Cache.TTL, appLogger)
	listPublicUseCase := portfolioUC.NewListPublicPortfoliosUseCase(portfolioRepo)
	feedUseCase := portfolioUC.NewFeedUseCase(portfolioRepo, cfg.App.BaseURL, appLogger)

	// HTTP Handlers
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		AuthHandler: httpAdapter.NewAuthHandler(loginUseCase, appLogger),
		StudioHandler: httpAdapter.NewStudioHandler(
			sessionUseCase,
			entryUseCase,
			settingsUseCase,
			reviewUseCase,
			saveUseCase,
			sections,
			appLogger,
		),
		PortfolioHandler: httpAdapter.NewPortfolioHandler(getPublicUseCase, listPublicUseCase, feedUseCase, appLogger),
		JWTService:       jwtSvc,
		Metrics:          appMetrics,
		Logger:           appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}
