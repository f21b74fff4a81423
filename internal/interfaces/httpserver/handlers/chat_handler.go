package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/domain/llm"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/interfaces/httpserver/dto"
	"newsagents/services/chat-api/internal/interfaces/httpserver/responses"
)

// ChatHandler exposes the conversational and one-shot query entrypoints.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Chat handles POST /chat. With stream=true the response is an NDJSON
// sequence of partial envelopes terminated by one terminal envelope.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBindError(c, err)
		return
	}

	request := buildRequest(c, req.Prompt, req.Parameters, workflow.KindChat)
	request.RequestID = req.RequestID
	request.ConversationID = req.ConversationID
	request.Stream = req.Stream
	request.Background = req.Background

	if req.Background {
		responses.WriteEnvelope(c, http.StatusOK, h.service.Enqueue(c.Request.Context(), request))
		return
	}

	if req.Stream {
		h.streamChat(c, request)
		return
	}

	responses.WriteEnvelope(c, http.StatusOK, h.service.Execute(c.Request.Context(), request))
}

// Query handles POST /query.
func (h *ChatHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBindError(c, err)
		return
	}

	request := buildRequest(c, req.Prompt, req.Parameters, workflow.KindQuery)
	request.RequestID = req.RequestID
	request.Background = req.Background

	if req.Background {
		responses.WriteEnvelope(c, http.StatusOK, h.service.Enqueue(c.Request.Context(), request))
		return
	}

	responses.WriteEnvelope(c, http.StatusOK, h.service.Execute(c.Request.Context(), request))
}

func (h *ChatHandler) streamChat(c *gin.Context, request chat.Request) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		responses.WriteEnvelope(c, http.StatusOK, h.service.Execute(c.Request.Context(), request))
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	encoder := json.NewEncoder(c.Writer)
	emit := func(env envelope.Envelope) error {
		if err := encoder.Encode(env); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	h.service.ExecuteStream(c.Request.Context(), request, emit)
}

// buildRequest maps the common fields and propagates the caller's
// Authorization header for downstream model calls.
func buildRequest(c *gin.Context, prompt string, params dto.Parameters, kind workflow.Kind) chat.Request {
	authCtx := llm.ContextWithAuthToken(c.Request.Context(), strings.TrimSpace(c.GetHeader("Authorization")))
	c.Request = c.Request.WithContext(authCtx)

	userEmail := params.UserEmail
	if userEmail == "" {
		if email, exists := c.Get("auth_email"); exists {
			userEmail, _ = email.(string)
		}
	}

	request := chat.Request{
		Kind:          kind,
		Prompt:        prompt,
		SessionID:     params.SessionID,
		UserID:        params.UserID,
		UserEmail:     userEmail,
		PresetOptions: params.PresetOptions,
		WebhookURL:    params.WebhookURL,
	}

	// Feedback-shaped parameters reroute the call; the router gives them
	// precedence over the endpoint kind.
	if params.HasFeedbackShape() || prompt == workflow.FeedbackPromptSentinel {
		positive := params.FeedbackType != nil && *params.FeedbackType
		request.Feedback = &feedback.SubmitParams{
			FeedbackID:    params.FeedbackID,
			MessageID:     params.MessageID,
			SessionID:     params.SessionID,
			UserEmail:     userEmail,
			Prompt:        prompt,
			PresetOptions: params.PresetOptions,
			Comment:       params.FeedbackComments,
			Positive:      positive,
		}
	}
	return request
}
