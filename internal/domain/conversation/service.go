package conversation

import (
	"context"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/utils/apperrors"
)

// Service exposes conversation history operations to handlers and workflows.
type Service interface {
	Get(ctx context.Context, publicID string) (*Conversation, error)
	Delete(ctx context.Context, publicID string) (bool, error)
	EnsureExists(ctx context.Context, publicID, userEmail string) (*Conversation, error)
	Append(ctx context.Context, publicID string, turns []Turn) ([]Turn, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the conversation service over a repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) Get(ctx context.Context, publicID string) (*Conversation, error) {
	if publicID == "" {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "conversation_id is required", nil)
	}
	return s.repo.Find(ctx, publicID)
}

func (s *service) Delete(ctx context.Context, publicID string) (bool, error) {
	if publicID == "" {
		return false, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "conversation_id is required", nil)
	}
	deleted, err := s.repo.Delete(ctx, publicID)
	if err != nil {
		return false, err
	}
	s.log.Info().Str("conversation_id", publicID).Bool("deleted", deleted).Msg("conversation delete requested")
	return deleted, nil
}

func (s *service) EnsureExists(ctx context.Context, publicID, userEmail string) (*Conversation, error) {
	if publicID == "" {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "conversation_id is required", nil)
	}
	return s.repo.GetOrCreate(ctx, publicID, userEmail)
}

func (s *service) Append(ctx context.Context, publicID string, turns []Turn) ([]Turn, error) {
	if publicID == "" {
		return nil, apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeValidation, "conversation_id is required", nil)
	}
	if len(turns) == 0 {
		return nil, nil
	}
	return s.repo.AppendTurns(ctx, publicID, turns)
}
