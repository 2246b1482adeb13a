package bootstrap

import (
	"context"
	"log"

	"symptom-checker-be/internal/config"
	"symptom-checker-be/internal/controller"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/pkg/serverutils"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/internal/service"
	"symptom-checker-be/pkg/diagnosis"
	"symptom-checker-be/pkg/events"
	"symptom-checker-be/pkg/llm"
	"symptom-checker-be/pkg/llm/factory"
	pktNats "symptom-checker-be/pkg/nats"
	"symptom-checker-be/pkg/staging"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	DiagnosisController controller.IDiagnosisController
	HistoryController   controller.IHistoryController

	// Background Services (Exposed for main.go to run)
	PendingFlushService service.IPendingFlushService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus (in-process auth state changes)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS (domain events); the service runs without it
	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Staging: redis, or in-memory when redis is not configured or unreachable
	stagingStore := staging.New(newStagingBackend(cfg, c), staging.WithTTL(cfg.Staging.TTL))

	// Completion backend
	caller, err := factory.NewToolCaller(factory.Config{
		Provider: cfg.Ai.Provider,
		Model:    cfg.Ai.Model,
		BaseURL:  cfg.Ai.BaseURL,
		APIKey:   cfg.Ai.APIKey,
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize completion provider: %v", err)
	}
	log.Printf("[INFO] Using completion provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)
	gateway := diagnosis.NewGateway(caller, llm.WithTemperature(cfg.Ai.Temperature))

	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	publisherService := service.NewPublisherService(service.TopicPrincipalAuthenticated, pubSub)
	historyService := service.NewHistoryService(uowFactory, eventPublisher, sysLogger)
	diagnosisService := service.NewDiagnosisService(gateway, sessionRepo, stagingStore, historyService, sysLogger)
	authService := service.NewAuthService(uowFactory, publisherService, eventPublisher, sysLogger, cfg.Auth.JwtSecret, cfg.Auth.TokenExpiry)
	c.PendingFlushService = service.NewPendingFlushService(
		pubSub,
		service.TopicPrincipalAuthenticated,
		stagingStore,
		sessionRepo,
		historyService,
		sysLogger,
	)

	// 5. Controllers
	requireAuth := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	optionalAuth := serverutils.NewOptionalJwtMiddleware(cfg.Auth.JwtSecret)

	c.AuthController = controller.NewAuthController(authService, requireAuth)
	c.DiagnosisController = controller.NewDiagnosisController(diagnosisService, optionalAuth)
	c.HistoryController = controller.NewHistoryController(historyService, requireAuth)

	return c
}

func newStagingBackend(cfg *config.Config, c *Container) staging.Backend {
	if cfg.Staging.Backend != "redis" {
		log.Printf("[INFO] Using in-memory staging store")
		return staging.NewMemoryBackend()
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory staging", err)
		_ = rdb.Close()
		return staging.NewMemoryBackend()
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	log.Printf("[INFO] Using redis staging store")
	return staging.NewRedisBackend(rdb)
}

// Close releases bus and broker connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
