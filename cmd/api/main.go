package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/pick-your-pour/signup-service/internal/api/http"
	"github.com/pick-your-pour/signup-service/internal/api/http/handlers"
	"github.com/pick-your-pour/signup-service/internal/config"
	"github.com/pick-your-pour/signup-service/internal/events"
	"github.com/pick-your-pour/signup-service/internal/observability"
	"github.com/pick-your-pour/signup-service/internal/persistence"
	"github.com/pick-your-pour/signup-service/internal/repository"
	"github.com/pick-your-pour/signup-service/internal/service"
	"github.com/pick-your-pour/signup-service/internal/worker"
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

	store, err := persistence.NewS3Store(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to configure object store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	visitorRepo := repository.NewVisitorEventRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	auditService.RegisterHandlers()

	assetService := service.NewAssetService(store, userRepo, dispatcher, logger)
	registrationService := service.NewRegistrationService(userRepo, redis.Handle(), assetService, dispatcher, logger)
	trackingService := service.NewTrackingService(visitorRepo, dispatcher)

	janitor := worker.NewStagingJanitor(store, cfg.Storage.StagingTTL(), cfg.Storage.JanitorInterval(), logger)
	janitor.Start(ctx)

	metrics := observability.NewMetrics()
	// Leave headroom above the image cap for multipart framing.
	app := fiber.New(fiber.Config{BodyLimit: service.MaxUploadBytes + 1<<20})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Uniqueness: handlers.NewUniquenessHandler(registrationService),
		Users:      handlers.NewUsersHandler(registrationService),
		Uploads:    handlers.NewUploadsHandler(assetService),
		Events:     handlers.NewEventsHandler(trackingService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
