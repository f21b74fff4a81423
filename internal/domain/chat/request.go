// Package chat holds the orchestrator that sequences every inbound request.
package chat

import (
	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/domain/workflow"
)

// Request is the transient unit of work handed to the orchestrator. The
// Kind discriminator is decided once at ingress; nothing downstream
// re-inspects the raw shape.
type Request struct {
	RequestID      string
	Kind           workflow.Kind
	Prompt         string
	ConversationID string
	SessionID      string
	UserID         string
	UserEmail      string
	PresetOptions  []string
	Stream         bool
	Background     bool
	WebhookURL     string
	Feedback       *feedback.SubmitParams
}

// Conversational reports whether the request participates in a conversation:
// allocating an id, loading history, and appending a turn on success.
// Feedback-shaped requests route to the feedback workflow even when they
// arrive on the chat endpoint, so they never touch a conversation.
func (r Request) Conversational() bool {
	return r.Kind == workflow.KindChat && r.Feedback == nil
}

// Tracked reports whether the request registers a job status entry.
func (r Request) Tracked() bool {
	return r.Kind == workflow.KindChat || r.Kind == workflow.KindQuery
}
