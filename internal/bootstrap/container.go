package bootstrap

import (
	"context"
	"log"
	"time"

	"docqa-chat-be/internal/config"
	"docqa-chat-be/internal/constant"
	"docqa-chat-be/internal/controller"
	"docqa-chat-be/internal/handler"
	"docqa-chat-be/internal/pkg/logger"
	"docqa-chat-be/internal/repository/memory"
	"docqa-chat-be/internal/service"
	"docqa-chat-be/internal/websocket"
	"docqa-chat-be/pkg/llm/factory"
	"docqa-chat-be/pkg/pdf"
	"docqa-chat-be/pkg/stream"

	pktNats "docqa-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	SessionController  controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	EvictionService service.IEvictionService

	// WebSockets & Activity Feed
	ActivityHandler *handler.ActivityHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Domain building blocks
	// Initialize LLM Provider based on Config
	baseURL := cfg.LLM.OpenAIBaseURL
	if cfg.LLM.Provider == "ollama" {
		baseURL = cfg.LLM.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.LLM.Provider,
		cfg.LLM.Model,
		baseURL,
		cfg.LLM.OpenAIAPIKey,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)
	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAIAPIKey == "" {
		log.Printf("[WARN] OPENAI_API_KEY is empty; chat calls will fail until it is set")
	}

	// In-memory session storage and the PDF extraction pipeline
	sessionStore := memory.NewSessionStore()
	extractionCache := memory.NewExtractionCache()
	extractor := pdf.NewExtractor(cfg.PDF.MaxSizeMB, cfg.PDF.MaxPages)
	responder := stream.NewResponder(
		time.Duration(cfg.Stream.StatusDelayMs)*time.Millisecond,
		time.Duration(cfg.Stream.TokenDelayMs)*time.Millisecond,
	)

	// 2.5 Infrastructure (optional, warn and continue without)
	// NATS
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisAddr != "" {
		opt, err := redis.ParseURL(cfg.App.RedisAddr)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisAddr,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(constant.SessionActivityTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.SessionActivityTopic,
		wsHub,
		natsPub,
	)

	sessionService := service.NewSessionService(sessionStore)
	documentService := service.NewDocumentService(sessionStore, extractionCache, extractor, publisherService)
	chatService := service.NewChatService(sessionStore, llmProvider, responder, publisherService)

	evictionService := service.NewEvictionService(
		sessionStore,
		publisherService,
		sysLogger,
		time.Duration(cfg.Session.MaxAgeSeconds)*time.Second,
		time.Duration(cfg.Session.SweepIntervalSeconds)*time.Second,
	)

	// Handler
	activityHandler := handler.NewActivityHandler(publisherService, wsHub, wsLogger)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		ActivityHandler: activityHandler,
		WebSocketHub:    wsHub,

		HealthController:   controller.NewHealthController(),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService),
		SessionController:  controller.NewSessionController(sessionService),

		ConsumerService: consumerService,
		EvictionService: evictionService,
	}
}
