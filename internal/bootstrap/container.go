package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"rocktalk-be/internal/config"
	"rocktalk-be/internal/controller"
	"rocktalk-be/internal/handler"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/repository/memory"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/internal/service"
	"rocktalk-be/internal/websocket"
	"rocktalk-be/pkg/events"
	"rocktalk-be/pkg/llm"
	"rocktalk-be/pkg/llm/factory"

	pktNats "rocktalk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	SessionController  controller.ISessionController
	ChatController     controller.IChatController
	TemplateController controller.ITemplateController
	SearchController   controller.ISearchController
	TransferController controller.ITransferController

	JwtMiddleware fiber.Handler

	// Services, exposed for the CLI
	SessionService  service.ISessionService
	MessageService  service.IMessageService
	TemplateService service.ITemplateService
	SearchService   service.ISearchService
	TransferService service.ITransferService

	// Background Services
	ConsumerService service.IConsumerService
	EventRelay      *service.EventRelayService

	// WebSockets
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub

	Logger *logger.ZapLogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

// Options lets callers replace pieces of the wiring, mainly in tests.
type Options struct {
	Provider llm.LLMProvider
	Logger   *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config, opts Options) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := opts.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}

	// 2. Event Bus for background jobs
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. LLM
	llmProvider := opts.Provider
	if llmProvider == nil {
		var err error
		llmProvider, err = factory.NewLLMProvider(factory.Config{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			APIKey:   cfg.LLM.APIKey,
			Timeout:  cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
		}
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)

	streams := memory.NewStreamRepository()

	// 4. Optional cluster infrastructure
	c := &Container{Logger: sysLogger, pubSub: pubSub}

	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		c.rdb = redis.NewClient(opt)
		if _, err := c.rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	wsLogger := logger.NewFileLogger(filepath.Join(cfg.App.DataDir, "logs", "events.log"))
	wsHub := websocket.NewHub(c.rdb, wsLogger)

	var publisher events.Publisher = wsHub
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
		if natsPub != nil && natsSub != nil {
			c.natsPub, c.natsSub = natsPub, natsSub
			publisher = natsPub
			c.EventRelay = service.NewEventRelayService(natsSub, wsHub, wsHub.InstanceID(), wsLogger)
		}
	}

	// 5. Services
	builtin := service.BuiltinConfig(cfg.LLM.Model, cfg.LLM.DefaultMaxTokens)
	titleModel := cfg.LLM.TitleModel
	if titleModel == "" {
		titleModel = cfg.LLM.Model
	}

	publisherService := service.NewPublisherService(cfg.LLM.TitleGenTopic, pubSub)
	titleService := service.NewTitleService(uowFactory, llmProvider, titleModel, publisher, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.LLM.TitleGenTopic, uowFactory, titleService, sysLogger)

	sessionService := service.NewSessionService(uowFactory, publisher, sysLogger, builtin)
	messageService := service.NewMessageService(uowFactory, publisher, sysLogger)
	chatService := service.NewChatService(uowFactory, messageService, publisherService, llmProvider, streams, sysLogger)
	templateService := service.NewTemplateService(uowFactory, publisher, sysLogger, cfg.LLM.Model)
	searchService := service.NewSearchService(uowFactory, sysLogger)
	transferService := service.NewTransferService(uowFactory, publisher, sysLogger, builtin)
	authService := service.NewAuthService(cfg.Auth, sysLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.SessionController = controller.NewSessionController(sessionService)
	c.ChatController = controller.NewChatController(chatService, messageService, titleService, sysLogger)
	c.TemplateController = controller.NewTemplateController(templateService)
	c.SearchController = controller.NewSearchController(searchService)
	c.TransferController = controller.NewTransferController(transferService)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret, cfg.Auth.Enabled)

	c.SessionService = sessionService
	c.MessageService = messageService
	c.TemplateService = templateService
	c.SearchService = searchService
	c.TransferService = transferService

	c.ConsumerService = consumerService
	c.EventHandler = handler.NewEventHandler(wsHub, wsLogger)
	c.WebSocketHub = wsHub

	return c, nil
}

// Start seeds the template presets and launches the background workers.
func (c *Container) Start(ctx context.Context) error {
	if err := c.TemplateService.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}

	go c.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	if c.EventRelay != nil {
		if err := c.EventRelay.Start(ctx); err != nil {
			log.Printf("[WARN] Event relay not started: %v", err)
		}
	}
	return nil
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.pubSub.Close()
	_ = c.Logger.Sync()
}
