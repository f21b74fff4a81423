package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/interfaces/httpserver/responses"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// StatusHandler exposes job status queries.
type StatusHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewStatusHandler constructs the handler.
func NewStatusHandler(service chat.Service, log zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		service: service,
		log:     log.With().Str("handler", "status").Logger(),
	}
}

// Get handles GET /status/:request_id. The status code follows the error
// category: only an unknown request id answers 404.
func (h *StatusHandler) Get(c *gin.Context) {
	id := c.Param("request_id")
	env := h.service.Status(c.Request.Context(), id)

	statusCode := http.StatusOK
	if env.Error != nil {
		statusCode = apperrors.ErrorTypeToHTTPStatus(env.ErrorType)
	}
	responses.WriteEnvelope(c, statusCode, env)
}
