package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/retry"
	"newsagents/services/chat-api/internal/infrastructure/metrics"
	"newsagents/services/chat-api/internal/infrastructure/observability"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// Gateway wraps a Provider with the deadline and retry policy every model
// call must carry. Blocking calls are retried on transient failures;
// streaming calls are handed to a single consumer and never restarted.
type Gateway struct {
	provider Provider
	policy   retry.Policy
	timeout  time.Duration
	log      zerolog.Logger
}

// NewGateway builds the gateway with the given call deadline and retry policy.
func NewGateway(provider Provider, policy retry.Policy, timeout time.Duration, log zerolog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		policy:   policy,
		timeout:  timeout,
		log:      log.With().Str("component", "llm-gateway").Logger(),
	}
}

// Complete performs a blocking chat completion and returns the assistant text.
func (g *Gateway) Complete(ctx context.Context, req ChatCompletionRequest) (string, *Usage, error) {
	req.Stream = false

	ctx, span := observability.StartLLMSpan(ctx, "complete", req.Model)
	defer span.End()

	started := time.Now()
	defer func() { metrics.RecordLLMCall("complete", time.Since(started)) }()

	resp, err := retry.ExecuteWithResult(ctx, g.policy, apperrors.Retryable, func(ctx context.Context, attempt int) (*ChatCompletionResponse, error) {
		if attempt > 0 {
			g.log.Warn().Int("attempt", attempt).Str("model", req.Model).Msg("retrying chat completion")
			metrics.RecordLLMRetry()
		}
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		resp, err := g.provider.CreateChatCompletion(callCtx, req)
		if err != nil {
			return nil, classifyUpstream(callCtx, err)
		}
		if len(resp.Choices) == 0 {
			return nil, apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "model returned no choices", nil)
		}
		return resp, nil
	})
	if err != nil {
		return "", nil, err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), resp.Usage, nil
}

// OpenStream starts a streaming chat completion. Chunks arrive in upstream
// order; cancelling ctx or closing the stream stops upstream consumption.
func (g *Gateway) OpenStream(ctx context.Context, req ChatCompletionRequest) (Stream, error) {
	req.Stream = true
	stream, err := g.provider.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, classifyUpstream(ctx, err)
	}
	return stream, nil
}

// classifyUpstream maps provider failures onto the error taxonomy. Timeouts
// and 5xx-equivalents stay retryable; auth and malformed requests do not.
func classifyUpstream(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "model call timed out", err)
	}
	if ctx.Err() == context.Canceled {
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeCancelled, "model call cancelled", err)
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "status 401"), strings.Contains(message, "status 403"):
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeUnauthorized, "model rejected credentials", err)
	case strings.Contains(message, "status 400"), strings.Contains(message, "status 422"):
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "model rejected request", err)
	default:
		return apperrors.New(ctx, apperrors.LayerInfrastructure, apperrors.ErrorTypeUpstream, "model call failed", err)
	}
}
