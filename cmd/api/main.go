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

	httptransport "github.com/spec-kit/auth-gateway/internal/api/http"
	"github.com/spec-kit/auth-gateway/internal/api/http/handlers"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/events"
	"github.com/spec-kit/auth-gateway/internal/observability"
	"github.com/spec-kit/auth-gateway/internal/persistence"
	"github.com/spec-kit/auth-gateway/internal/ratelimit"
	"github.com/spec-kit/auth-gateway/internal/repository"
	"github.com/spec-kit/auth-gateway/internal/service"
	"github.com/spec-kit/auth-gateway/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	revocationRepo := repository.NewRevocationRepository(pool)

	var limiter ratelimit.Limiter
	if redis.Client != nil {
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.Window(), cfg.RateLimit.MaxAttempts, logger)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Window(), cfg.RateLimit.MaxAttempts)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		RevocationRepo: revocationRepo,
		Limiter:        limiter,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), revocationRepo)

	sweeper := worker.NewRevocationSweeper(revocationRepo, time.Hour, logger)
	go sweeper.Run(ctx)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	usersHandler := handlers.NewUsersHandler(authService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Users:          usersHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
