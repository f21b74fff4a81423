package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/infrastructure/metrics"
	"newsagents/services/chat-api/internal/interfaces/httpserver/dto"
	"newsagents/services/chat-api/internal/interfaces/httpserver/responses"
)

// FeedbackHandler exposes feedback capture and listing.
type FeedbackHandler struct {
	orchestrator chat.Service
	feedback     feedback.Service
	log          zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(orchestrator chat.Service, feedbackService feedback.Service, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		orchestrator: orchestrator,
		feedback:     feedbackService,
		log:          log.With().Str("handler", "feedback").Logger(),
	}
}

// Submit handles POST /feedback. The call is rewritten onto the feedback
// workflow: never streamed, never chained into reasoning.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBindError(c, err)
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = workflow.FeedbackPromptSentinel
	}

	request := buildRequest(c, prompt, req.Parameters, workflow.KindFeedback)
	request.Stream = false

	env := h.orchestrator.Execute(c.Request.Context(), request)
	if env.Error == nil && req.Parameters.FeedbackType != nil {
		metrics.RecordFeedback(*req.Parameters.FeedbackType)
	}
	responses.WriteEnvelope(c, http.StatusOK, env)
}

// List handles GET /feedback with limit/offset paging.
func (h *FeedbackHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.feedback.List(c.Request.Context(), limit, offset)
	if err != nil {
		responses.WriteEnvelope(c, http.StatusOK, envelope.Failure(err, uuid.NewString(), nil, nil))
		return
	}

	responses.WriteEnvelope(c, http.StatusOK,
		envelope.Build(records, uuid.NewString(), nil, nil, nil,
			map[string]interface{}{"count": len(records), "limit": limit, "offset": offset}))
}
