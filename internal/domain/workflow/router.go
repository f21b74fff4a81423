package workflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/utils/apperrors"
)

// Router resolves a request to a named workflow and executes it. Resolution
// happens once per request; workflows never re-route.
type Router struct {
	chat     Workflow
	query    Workflow
	feedback Workflow
	log      zerolog.Logger
}

// NewRouter wires the three workflows.
func NewRouter(chat, query, feedback Workflow, log zerolog.Logger) *Router {
	return &Router{
		chat:     chat,
		query:    query,
		feedback: feedback,
		log:      log.With().Str("component", "workflow-router").Logger(),
	}
}

// Resolve picks the workflow for a request. Feedback-shaped parameters win
// over the chat shape; feedback is a leaf action and is never chained.
func (r *Router) Resolve(ctx context.Context, req Request) (Workflow, error) {
	if req.Feedback != nil || req.Prompt == FeedbackPromptSentinel || req.Kind == KindFeedback {
		return r.feedback, nil
	}
	switch req.Kind {
	case KindChat:
		return r.chat, nil
	case KindQuery:
		return r.query, nil
	default:
		return nil, apperrors.New(ctx, apperrors.LayerRoute, apperrors.ErrorTypeUnroutable,
			fmt.Sprintf("no workflow matches request kind %q", req.Kind), nil)
	}
}

// Execute resolves and runs the workflow, logging the selection.
func (r *Router) Execute(ctx context.Context, req Request) (*Result, error) {
	wf, err := r.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	r.log.Debug().
		Str("workflow", wf.Name()).
		Str("kind", string(req.Kind)).
		Bool("stream", req.Stream).
		Msg("workflow selected")

	result, err := wf.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Workflow = wf.Name()
	return result, nil
}
