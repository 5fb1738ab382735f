package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/raffle-service/internal/api/http"
	"github.com/spec-kit/raffle-service/internal/api/http/handlers"
	"github.com/spec-kit/raffle-service/internal/auth"
	"github.com/spec-kit/raffle-service/internal/config"
	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/events"
	"github.com/spec-kit/raffle-service/internal/gateway"
	"github.com/spec-kit/raffle-service/internal/observability"
	"github.com/spec-kit/raffle-service/internal/persistence"
	"github.com/spec-kit/raffle-service/internal/repository"
	"github.com/spec-kit/raffle-service/internal/service"
	"github.com/spec-kit/raffle-service/internal/session"
	"github.com/spec-kit/raffle-service/internal/worker"
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
	participantRepo := repository.NewParticipantRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	purchaseRepo := repository.NewPurchaseRepository(pool)
	actorRepo := repository.NewActorRepository(pool)

	catalog := domain.DefaultCatalog()
	sessions := session.NewRedisStore(redis.Client, cfg.Session.TTL())
	dispatcher := events.NewInMemoryDispatcher()

	var notifier gateway.Notifier
	if cfg.Telegram.BotToken != "" {
		tg, err := gateway.NewTelegram(cfg.Telegram.BotToken, logger)
		if err != nil {
			logger.Fatal("failed to init telegram gateway", zap.Error(err))
		}
		notifier = tg
	} else {
		logger.Warn("no telegram token configured, notifications are logged only")
		notifier = gateway.NewLogNotifier(logger)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, actorRepo, tokens, logger)
	if err := authService.SeedAdmin(ctx); err != nil {
		logger.Fatal("failed to seed initial actor", zap.Error(err))
	}

	registrationService := service.NewRegistrationService(participantRepo, sessions, logger)
	reviewService := service.NewReviewService(service.ReviewDependencies{
		Catalog:         catalog,
		ParticipantRepo: participantRepo,
		PaymentRepo:     paymentRepo,
		PurchaseRepo:    purchaseRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	reportService := service.NewReportService(participantRepo, purchaseRepo)
	notificationService := service.NewNotificationService(
		dispatcher, participantRepo, catalog, notifier, cfg.Telegram.AdminChatIDs, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokens, actorRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Gateway:        handlers.NewGatewayHandler(registrationService, reviewService, catalog, cfg.Payment, cfg.Telegram.ChannelURL),
		Admin:          handlers.NewAdminHandler(reviewService, reportService),
		AuthMiddleware: authMiddleware,
		GatewayToken:   cfg.Gateway.Token,
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
