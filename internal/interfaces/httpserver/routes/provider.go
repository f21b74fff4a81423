package routes

import (
	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

// Provider coordinates all route registrations.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		handlers: handlerProvider,
	}
}

// Register attaches all available routes to the gin engine. The API is
// served at the root, not under a version prefix.
func (p *Provider) Register(engine *gin.Engine) {
	registerChatRoutes(engine, p.handlers.Chat)
	registerFeedbackRoutes(engine, p.handlers.Feedback)
	registerConversationRoutes(engine, p.handlers.Conversation)
	registerStatusRoutes(engine, p.handlers.Status)
}
