package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"newsagents/services/chat-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID  string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Title     *string `gorm:"type:varchar(256)"`
	UserEmail string  `gorm:"type:varchar(128);index"`

	Turns []ConversationTurn `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationTurn stores one prompt/response pair. Seq is unique per
// conversation and assigned inside the append transaction.
type ConversationTurn struct {
	ID             uint           `gorm:"primaryKey"`
	ConversationID uint           `gorm:"uniqueIndex:idx_turn_conversation_seq;not null"`
	Seq            int            `gorm:"uniqueIndex:idx_turn_conversation_seq;not null"`
	Prompt         string         `gorm:"type:text;not null"`
	Response       datatypes.JSON `gorm:"type:jsonb"`
	Workflow       string         `gorm:"type:varchar(64)"`
	SessionID      string         `gorm:"type:varchar(64);index"`
	UserID         string         `gorm:"type:varchar(64)"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ConversationTurn.
func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	turns := make([]conversation.Turn, len(c.Turns))
	for i, turn := range c.Turns {
		turns[i] = *turn.EtoD()
	}

	title := ""
	if c.Title != nil {
		title = *c.Title
	}

	return &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		Title:     title,
		UserEmail: c.UserEmail,
		Turns:     turns,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EtoD converts the turn entity to the domain model.
func (t *ConversationTurn) EtoD() *conversation.Turn {
	var response interface{}
	if len(t.Response) > 0 {
		if err := json.Unmarshal(t.Response, &response); err != nil {
			response = string(t.Response)
		}
	}

	return &conversation.Turn{
		ID:        t.ID,
		Seq:       t.Seq,
		Prompt:    t.Prompt,
		Response:  response,
		Workflow:  t.Workflow,
		SessionID: t.SessionID,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
	}
}

// NewSchemaTurn creates a turn entity from the domain model. The response
// payload is stored as JSON.
func NewSchemaTurn(conversationID uint, turn conversation.Turn) (*ConversationTurn, error) {
	var payload datatypes.JSON
	if turn.Response != nil {
		raw, err := json.Marshal(turn.Response)
		if err != nil {
			return nil, err
		}
		payload = datatypes.JSON(raw)
	}

	return &ConversationTurn{
		ConversationID: conversationID,
		Seq:            turn.Seq,
		Prompt:         turn.Prompt,
		Response:       payload,
		Workflow:       turn.Workflow,
		SessionID:      turn.SessionID,
		UserID:         turn.UserID,
	}, nil
}
