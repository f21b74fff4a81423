package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/envelope"
)

// HTTPService implements callback notifications via HTTP POST.
type HTTPService struct {
	httpClient *http.Client
	log        zerolog.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewHTTPService creates a new HTTP-based callback service.
func NewHTTPService(log zerolog.Logger) *HTTPService {
	return &HTTPService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:        log.With().Str("component", "webhook").Logger(),
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
}

// NotifyResult posts the terminal envelope of a background request to the
// callback URL. Delivery is best effort with bounded retries.
func (s *HTTPService) NotifyResult(ctx context.Context, url string, env envelope.Envelope) error {
	if url == "" {
		return nil
	}

	event := EventChatCompleted
	if env.Error != nil {
		event = EventChatFailed
	}

	body, err := json.Marshal(Payload{Event: event, Envelope: env})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create webhook request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "newsagents-chat-api/1.0")
		req.Header.Set("X-Chat-Event", event)
		req.Header.Set("X-Chat-Request-ID", env.RequestID)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send webhook (attempt %d/%d): %w", attempt, s.maxRetries, err)
			s.log.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("webhook delivery failed")

			if attempt < s.maxRetries {
				time.Sleep(s.retryDelay)
				continue
			}
			break
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.log.Info().Str("url", url).Int("status", resp.StatusCode).Str("request_id", env.RequestID).Msg("webhook delivered")
			return nil
		}

		lastErr = fmt.Errorf("webhook returned status %d (attempt %d/%d)", resp.StatusCode, attempt, s.maxRetries)
		s.log.Warn().Int("status", resp.StatusCode).Str("url", url).Int("attempt", attempt).Msg("webhook delivery failed")

		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	return lastErr
}

// Ensure interface compliance.
var _ Service = (*HTTPService)(nil)
