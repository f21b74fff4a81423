package handlers

import (
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/feedback"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Feedback     *FeedbackHandler
	Conversation *ConversationHandler
	Status       *StatusHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(orchestrator chat.Service, feedbackService feedback.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat:         NewChatHandler(orchestrator, log),
		Feedback:     NewFeedbackHandler(orchestrator, feedbackService, log),
		Conversation: NewConversationHandler(orchestrator, log),
		Status:       NewStatusHandler(orchestrator, log),
	}
}
