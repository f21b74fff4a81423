package routes

import (
	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler) {
	router.GET("/conversations/:conversation_id", handler.Get)
	router.DELETE("/conversations/:conversation_id", handler.Delete)
}
