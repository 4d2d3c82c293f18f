package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/gcgcontrol/panel-service/internal/api/http"
	"github.com/gcgcontrol/panel-service/internal/api/http/handlers"
	"github.com/gcgcontrol/panel-service/internal/auth"
	"github.com/gcgcontrol/panel-service/internal/board"
	"github.com/gcgcontrol/panel-service/internal/chat"
	"github.com/gcgcontrol/panel-service/internal/config"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/observability"
	"github.com/gcgcontrol/panel-service/internal/persistence"
	"github.com/gcgcontrol/panel-service/internal/presence"
	"github.com/gcgcontrol/panel-service/internal/realtime"
	"github.com/gcgcontrol/panel-service/internal/repository"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
	"github.com/gcgcontrol/panel-service/internal/service"
	"github.com/gcgcontrol/panel-service/internal/worker"
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

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	analystRepo := repository.NewAnalystRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	panelConfigRepo := repository.NewPanelConfigRepository(pool)

	// All publishes go through the bridge so sibling instances replay them.
	dispatcher := realtime.NewBridge(events.NewInMemoryDispatcher(), rdb.Client, cfg.Redis.Channel, logger)
	go dispatcher.Run(ctx)

	clock := scheduler.RealClock()
	sched := scheduler.New(logger)

	tracker := presence.NewTracker(analystRepo, dispatcher, clock, logger, presence.Options{
		StaleThreshold: cfg.Presence.StaleThreshold(),
		OverrideGrace:  cfg.Presence.OverrideGrace(),
	})
	reconciler := board.NewReconciler(analystRepo, dispatcher, clock, logger)
	chatStore := chat.NewStore(messageRepo, panelConfigRepo, dispatcher, clock, logger)

	purgeWorker := worker.NewPurgeWorker(chatStore, sched, clock, logger, cfg.Chat.PurgeCheckInterval())
	purgeWorker.Start()

	authService := service.NewAuthService(*cfg, accountRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, dispatcher, clock)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb),
		Auth:           handlers.NewAuthHandler(authService, tracker),
		Analysts:       handlers.NewAnalystsHandler(tracker, reconciler),
		Messages:       handlers.NewMessagesHandler(chatStore),
		Announcements:  handlers.NewAnnouncementsHandler(announcementService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	purgeWorker.Stop()
	sched.Stop()
	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
