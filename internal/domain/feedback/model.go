package feedback

import "time"

// Feedback records a user's thumbs up/down on a single assistant message.
// FeedbackID is the idempotency key: submitting the same id again updates
// the stored record instead of creating a new row.
type Feedback struct {
	ID            uint      `json:"-"`
	FeedbackID    string    `json:"feedback_id"`
	MessageID     string    `json:"message_id"`
	SessionID     string    `json:"session_id,omitempty"`
	UserEmail     string    `json:"user_email"`
	Prompt        string    `json:"prompt,omitempty"`
	PresetOptions []string  `json:"preset_options,omitempty"`
	Comment       string    `json:"feedback_comments,omitempty"`
	Positive      bool      `json:"feedback_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubmitParams contains the raw fields collected from the HTTP layer before
// validation and normalization.
type SubmitParams struct {
	FeedbackID    string
	MessageID     string
	SessionID     string
	UserEmail     string
	Prompt        string
	PresetOptions []string
	Comment       string
	Positive      bool
}
