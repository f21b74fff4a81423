//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"newsagents/services/chat-api/internal/config"
	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/conversation"
	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/domain/llm"
	"newsagents/services/chat-api/internal/domain/retry"
	"newsagents/services/chat-api/internal/domain/status"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/infrastructure/auth"
	"newsagents/services/chat-api/internal/infrastructure/database"
	"newsagents/services/chat-api/internal/infrastructure/jobstatus"
	"newsagents/services/chat-api/internal/infrastructure/llmprovider"
	"newsagents/services/chat-api/internal/infrastructure/logger"
	"newsagents/services/chat-api/internal/infrastructure/queue"
	conversationrepo "newsagents/services/chat-api/internal/infrastructure/repository/conversation"
	feedbackrepo "newsagents/services/chat-api/internal/infrastructure/repository/feedback"
	"newsagents/services/chat-api/internal/infrastructure/repository/stockdata"
	"newsagents/services/chat-api/internal/interfaces/httpserver"
	"newsagents/services/chat-api/internal/webhook"
)

var chatSet = wire.NewSet(
	conversationrepo.NewPostgresRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.PostgresRepository)),
	conversation.NewService,
	feedbackrepo.NewPostgresRepository,
	wire.Bind(new(feedback.Repository), new(*feedbackrepo.PostgresRepository)),
	feedback.NewService,
	stockdata.NewPostgresScreener,
	wire.Bind(new(workflow.Screener), new(*stockdata.PostgresScreener)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newGateway,
	newRouter,
	newStatusTracker,
	wire.Bind(new(status.Tracker), new(*jobstatus.MemoryStore)),
	newTaskQueue,
	wire.Bind(new(chat.Queue), new(*queue.MemoryQueue)),
	newWebhookService,
	wire.Bind(new(webhook.Service), new(*webhook.HTTPService)),
	chat.NewService,
)

// BuildApplication demonstrates how to assemble the orchestrator with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newGormDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey)
}

func newGateway(cfg *config.Config, provider llm.Provider, log zerolog.Logger) *llm.Gateway {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.LLMMaxRetries
	return llm.NewGateway(provider, policy, cfg.LLMTimeout, log)
}

func newRouter(ctx context.Context, cfg *config.Config, provider *llmprovider.Client, gateway *llm.Gateway, screener workflow.Screener, feedbackService feedback.Service, log zerolog.Logger) *workflow.Router {
	contextLength := resolveContextLength(ctx, provider, cfg.LLMModel, log)
	return workflow.NewRouter(
		workflow.NewMasterChat(gateway, screener, cfg.LLMModel, contextLength, log),
		workflow.NewDirectQuery(gateway, screener, cfg.LLMModel, log),
		workflow.NewFeedbackCapture(feedbackService, log),
		log,
	)
}

func newStatusTracker(cfg *config.Config, log zerolog.Logger) *jobstatus.MemoryStore {
	return jobstatus.NewMemoryStore(cfg.StatusRetention, log)
}

func newTaskQueue(cfg *config.Config, log zerolog.Logger) *queue.MemoryQueue {
	return queue.NewMemoryQueue(cfg.QueueCapacity, log)
}

func newWebhookService(log zerolog.Logger) *webhook.HTTPService {
	return webhook.NewHTTPService(log)
}
