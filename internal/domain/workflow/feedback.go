package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// feedbackCapture records user feedback and echoes the stored record. It is
// always a leaf: it never calls the model and never streams.
type feedbackCapture struct {
	service feedback.Service
	log     zerolog.Logger
}

// NewFeedbackCapture builds the feedback workflow over the feedback service.
func NewFeedbackCapture(service feedback.Service, log zerolog.Logger) Workflow {
	return &feedbackCapture{
		service: service,
		log:     log.With().Str("component", "feedback-workflow").Logger(),
	}
}

func (w *feedbackCapture) Name() string { return NameFeedback }

func (w *feedbackCapture) Execute(ctx context.Context, req Request) (*Result, error) {
	if req.Feedback == nil {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation,
			"feedback parameters are required", nil)
	}

	params := *req.Feedback
	if params.SessionID == "" {
		params.SessionID = req.SessionID
	}
	if params.UserEmail == "" {
		params.UserEmail = req.UserEmail
	}

	stored, err := w.service.Submit(ctx, params)
	if err != nil {
		return nil, err
	}
	return &Result{Feedback: stored}, nil
}
