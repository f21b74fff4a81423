package conversation

import "time"

// Conversation is the aggregate holding an ordered chat history.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"conversation_id"`
	Title     string    `json:"title,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Turn is one prompt/response pair within a conversation. Seq is assigned
// by the repository and is strictly increasing within a conversation; turns
// are immutable once written.
type Turn struct {
	ID        uint        `json:"-"`
	Seq       int         `json:"seq"`
	Prompt    string      `json:"prompt"`
	Response  interface{} `json:"response"`
	Workflow  string      `json:"workflow,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ResponseText extracts the narrative part of the stored response payload
// for use as model context. Unknown shapes yield an empty string.
func (t Turn) ResponseText() string {
	switch v := t.Response.(type) {
	case string:
		return v
	case map[string]interface{}:
		if expl, ok := v["stock_data_explanation"].(map[string]interface{}); ok {
			if text, ok := expl["explanation"].(string); ok {
				return text
			}
		}
	}
	return ""
}

// NewTurn builds an unsaved turn. Seq stays zero until the repository
// appends it.
func NewTurn(prompt string, response interface{}, workflow, sessionID, userID string) Turn {
	return Turn{
		Prompt:    prompt,
		Response:  response,
		Workflow:  workflow,
		SessionID: sessionID,
		UserID:    userID,
	}
}
