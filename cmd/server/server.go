package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/config"
	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/conversation"
	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/domain/llm"
	"newsagents/services/chat-api/internal/domain/retry"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/infrastructure/auth"
	"newsagents/services/chat-api/internal/infrastructure/database"
	"newsagents/services/chat-api/internal/infrastructure/jobstatus"
	"newsagents/services/chat-api/internal/infrastructure/llmprovider"
	"newsagents/services/chat-api/internal/infrastructure/logger"
	"newsagents/services/chat-api/internal/infrastructure/observability"
	"newsagents/services/chat-api/internal/infrastructure/queue"
	conversationrepo "newsagents/services/chat-api/internal/infrastructure/repository/conversation"
	feedbackrepo "newsagents/services/chat-api/internal/infrastructure/repository/feedback"
	"newsagents/services/chat-api/internal/infrastructure/repository/stockdata"
	"newsagents/services/chat-api/internal/interfaces/httpserver"
	"newsagents/services/chat-api/internal/webhook"
	"newsagents/services/chat-api/internal/worker"
)

// Application bundles the long running pieces of the service.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationService := conversation.NewService(conversationrepo.NewPostgresRepository(db), log)
	feedbackService := feedback.NewService(feedbackrepo.NewPostgresRepository(db), log)
	screener := stockdata.NewPostgresScreener(db)

	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.LLMMaxRetries
	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey)
	gateway := llm.NewGateway(llmClient, policy, cfg.LLMTimeout, log)

	contextLength := resolveContextLength(ctx, llmClient, cfg.LLMModel, log)

	router := workflow.NewRouter(
		workflow.NewMasterChat(gateway, screener, cfg.LLMModel, contextLength, log),
		workflow.NewDirectQuery(gateway, screener, cfg.LLMModel, log),
		workflow.NewFeedbackCapture(feedbackService, log),
		log,
	)

	tracker := jobstatus.NewMemoryStore(cfg.StatusRetention, log)
	tracker.StartJanitor(ctx)

	taskQueue := queue.NewMemoryQueue(cfg.QueueCapacity, log)
	notifier := webhook.NewHTTPService(log)
	orchestrator := chat.NewService(router, conversationService, tracker, taskQueue, notifier, log)

	workerPool := worker.NewPool(
		taskQueue,
		worker.Config{
			WorkerCount: cfg.WorkerCount,
			TaskTimeout: cfg.WorkerTimeout,
		},
		log,
	)

	workerPool.Start(ctx)
	defer func() {
		log.Info().Msg("stopping worker pool")
		workerPool.Stop()
	}()

	httpServer := httpserver.New(cfg, log, orchestrator, feedbackService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// resolveContextLength fetches the configured model's context window from the
// inference service. Any lookup failure falls back to the default so startup
// never blocks on model metadata.
func resolveContextLength(ctx context.Context, provider llm.ModelInfoProvider, model string, log zerolog.Logger) int {
	info, err := provider.GetModelInfo(ctx, model)
	if err != nil {
		log.Warn().Err(err).Str("model", model).Msg("model metadata lookup failed, using default context length")
		return llm.DefaultContextLength
	}
	if info == nil {
		log.Warn().Str("model", model).Msg("configured model not advertised by inference service, using default context length")
		return llm.DefaultContextLength
	}
	if info.ContextLength == nil || *info.ContextLength <= 0 {
		return llm.DefaultContextLength
	}
	log.Info().Str("model", info.ID).Int("context_length", *info.ContextLength).Msg("model metadata loaded")
	return *info.ContextLength
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
