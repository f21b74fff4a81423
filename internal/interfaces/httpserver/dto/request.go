// Package dto defines the HTTP request payloads.
package dto

// Parameters carries the loosely structured options clients send alongside
// a prompt. Feedback submissions reuse the same block.
type Parameters struct {
	SessionID        string   `json:"session_id"`
	UserID           string   `json:"user_id"`
	UserEmail        string   `json:"user_email"`
	PresetOptions    []string `json:"preset_options"`
	MessageID        string   `json:"message_id"`
	FeedbackComments string   `json:"feedback_comments"`
	FeedbackType     *bool    `json:"feedback_type"`
	FeedbackID       string   `json:"feedback_id"`
	WebhookURL       string   `json:"webhook_url"`
}

// HasFeedbackShape reports whether the parameters carry feedback fields.
func (p Parameters) HasFeedbackShape() bool {
	return p.MessageID != "" || p.FeedbackID != "" || p.FeedbackType != nil
}

// ChatRequest is the POST /chat payload.
type ChatRequest struct {
	Prompt         string     `json:"prompt" binding:"required"`
	Parameters     Parameters `json:"parameters"`
	Stream         bool       `json:"stream"`
	Background     bool       `json:"background"`
	ConversationID string     `json:"conversation_id"`
	RequestID      string     `json:"request_id"`
}

// QueryRequest is the POST /query payload.
type QueryRequest struct {
	Prompt     string     `json:"prompt" binding:"required"`
	Parameters Parameters `json:"parameters"`
	Background bool       `json:"background"`
	RequestID  string     `json:"request_id"`
}

// FeedbackRequest is the POST /feedback payload.
type FeedbackRequest struct {
	Prompt     string     `json:"prompt"`
	Parameters Parameters `json:"parameters" binding:"required"`
}
