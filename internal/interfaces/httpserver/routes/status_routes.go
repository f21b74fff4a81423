package routes

import (
	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerStatusRoutes(router gin.IRoutes, handler *handlers.StatusHandler) {
	router.GET("/status/:request_id", handler.Get)
}
