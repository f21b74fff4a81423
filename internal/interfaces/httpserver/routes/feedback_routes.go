package routes

import (
	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerFeedbackRoutes(router gin.IRoutes, handler *handlers.FeedbackHandler) {
	router.POST("/feedback", handler.Submit)
	router.GET("/feedback", handler.List)
}
