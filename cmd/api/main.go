package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/auradesk/service-desk/internal/ai"
	"github.com/auradesk/service-desk/internal/ai/prompt"
	httptransport "github.com/auradesk/service-desk/internal/api/http"
	"github.com/auradesk/service-desk/internal/api/http/handlers"
	"github.com/auradesk/service-desk/internal/config"
	"github.com/auradesk/service-desk/internal/events"
	"github.com/auradesk/service-desk/internal/observability"
	"github.com/auradesk/service-desk/internal/persistence"
	"github.com/auradesk/service-desk/internal/repository"
	"github.com/auradesk/service-desk/internal/service"
	"github.com/auradesk/service-desk/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	kbRepo := repository.NewKBRepository(pool)
	ticketCache := repository.NewTicketCache(redis.Client)
	agentDirectory := repository.NewStaticAgentDirectory()

	prompts := prompt.NewRegistry()
	completions := ai.NewClient(cfg.AI, logger)
	classifier := ai.NewClassifier(completions, prompts, logger)

	analysisService := service.NewAnalysisService(service.AnalysisDependencies{
		Completions: completions,
		Classifier:  classifier,
		Prompts:     prompts,
		Agents:      agentDirectory,
		Logger:      logger,
		Metrics:     metrics,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Tickets:  ticketRepo,
		Cache:    ticketCache,
		KB:       kbRepo,
		Analysis: analysisService,
		Events:   dispatcher,
		Logger:   logger,
		Metrics:  metrics,
	})
	kbService := service.NewKBService(service.KBDependencies{
		Articles:    kbRepo,
		Completions: completions,
		Prompts:     prompts,
		Logger:      logger,
	})
	chatService := service.NewChatService(service.ChatDependencies{
		Completions: completions,
		Prompts:     prompts,
		Redis:       redis.Client,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, completions),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Agents:  handlers.NewAgentsHandler(agentDirectory),
		KB:      handlers.NewKBHandler(kbService),
		Chat:    handlers.NewChatHandler(chatService),
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
