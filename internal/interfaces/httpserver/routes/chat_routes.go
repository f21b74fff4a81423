package routes

import (
	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/chat", handler.Chat)
	router.POST("/query", handler.Query)
}
