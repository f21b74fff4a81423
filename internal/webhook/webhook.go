package webhook

import (
	"context"

	"newsagents/services/chat-api/internal/domain/envelope"
)

// Event names delivered to callback URLs.
const (
	EventChatCompleted = "chat.completed"
	EventChatFailed    = "chat.failed"
)

// Service delivers the terminal envelope of a background request to a
// caller supplied callback URL.
type Service interface {
	NotifyResult(ctx context.Context, url string, env envelope.Envelope) error
}

// Payload is the structure sent to callback URLs.
type Payload struct {
	Event    string            `json:"event"`
	Envelope envelope.Envelope `json:"envelope"`
}
