package feedback

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/utils/apperrors"
)

const (
	// maxCommentLength matches the column width of the comment field.
	maxCommentLength = 255

	// defaultUserEmail is stored when the caller never authenticated.
	defaultUserEmail = "staging_env"
)

// Service exposes feedback capture and retrieval.
type Service interface {
	Submit(ctx context.Context, params SubmitParams) (*Feedback, error)
	Get(ctx context.Context, feedbackID string) (*Feedback, error)
	List(ctx context.Context, limit, offset int) ([]Feedback, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the feedback service over a repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "feedback-service").Logger(),
	}
}

// Submit normalizes and persists one feedback record. Resubmitting the same
// feedback_id updates the stored record in place.
func (s *service) Submit(ctx context.Context, params SubmitParams) (*Feedback, error) {
	if params.MessageID == "" {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "message_id is required", nil)
	}
	if params.FeedbackID == "" {
		params.FeedbackID = uuid.NewString()
	}
	if params.UserEmail == "" {
		params.UserEmail = defaultUserEmail
	}
	if len(params.Comment) > maxCommentLength {
		params.Comment = params.Comment[:maxCommentLength]
	}

	fb := &Feedback{
		FeedbackID:    params.FeedbackID,
		MessageID:     params.MessageID,
		SessionID:     params.SessionID,
		UserEmail:     params.UserEmail,
		Prompt:        params.Prompt,
		PresetOptions: params.PresetOptions,
		Comment:       params.Comment,
		Positive:      params.Positive,
	}
	if err := s.repo.Upsert(ctx, fb); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("feedback_id", fb.FeedbackID).
		Str("message_id", fb.MessageID).
		Bool("positive", fb.Positive).
		Msg("feedback stored")
	return fb, nil
}

func (s *service) Get(ctx context.Context, feedbackID string) (*Feedback, error) {
	if feedbackID == "" {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "feedback_id is required", nil)
	}
	return s.repo.FindByFeedbackID(ctx, feedbackID)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
