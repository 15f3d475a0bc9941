package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/quiz-service/internal/api/http"
	"github.com/spec-kit/quiz-service/internal/api/http/handlers"
	"github.com/spec-kit/quiz-service/internal/auth"
	"github.com/spec-kit/quiz-service/internal/config"
	"github.com/spec-kit/quiz-service/internal/events"
	"github.com/spec-kit/quiz-service/internal/llm"
	"github.com/spec-kit/quiz-service/internal/observability"
	"github.com/spec-kit/quiz-service/internal/persistence"
	"github.com/spec-kit/quiz-service/internal/repository"
	"github.com/spec-kit/quiz-service/internal/service"
	"github.com/spec-kit/quiz-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}
	credentials, err := auth.NewCredentialStore(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.AdminUserID, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("invalid admin credentials", zap.Error(err))
	}
	gateway, err := llm.NewGateway(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to init llm gateway", zap.Error(err))
	}

	var activityRepo repository.ActivityRepository
	if pg.Enabled() {
		activityRepo = repository.NewActivityRepository(pg.Pool)
	}
	var stream service.StreamAdder
	if redis.Enabled() {
		stream = redis.Client
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	activityService := service.NewActivityService(activityRepo, stream, cfg.Redis.ActivityStream, logger)
	worker.StartActivityWorker(dispatcher, activityService)

	authService := service.NewAuthService(service.AuthDependencies{
		Credentials: credentials,
		Tokens:      tokens,
		TokenTTL:    cfg.Auth.AccessTokenTTL(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	questionService := service.NewQuestionService(gateway, cfg.LLM.BatchConcurrency, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout() + 10*time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Questions:      handlers.NewQuestionsHandler(questionService),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("quiz service started", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
