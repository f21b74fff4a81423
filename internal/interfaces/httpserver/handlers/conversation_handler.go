package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/interfaces/httpserver/responses"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// ConversationHandler exposes conversation history management.
type ConversationHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service chat.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// Get handles GET /conversations/:conversation_id. The status code follows
// the error category: only a missing conversation answers 404.
func (h *ConversationHandler) Get(c *gin.Context) {
	id := c.Param("conversation_id")
	env := h.service.GetConversation(c.Request.Context(), id)

	statusCode := http.StatusOK
	if env.Error != nil {
		statusCode = apperrors.ErrorTypeToHTTPStatus(env.ErrorType)
	}
	responses.WriteEnvelope(c, statusCode, env)
}

// Delete handles DELETE /conversations/:conversation_id. Deleting an
// unknown conversation succeeds with a false deletion flag.
func (h *ConversationHandler) Delete(c *gin.Context) {
	id := c.Param("conversation_id")
	responses.WriteEnvelope(c, http.StatusOK, h.service.DeleteConversation(c.Request.Context(), id))
}
