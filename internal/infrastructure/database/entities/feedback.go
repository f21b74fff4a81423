package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"newsagents/services/chat-api/internal/domain/feedback"
)

// Feedback represents the database schema for user feedback. FeedbackID is
// the idempotency key used by the upsert.
type Feedback struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FeedbackID    string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	MessageID     string         `gorm:"type:varchar(64);index;not null"`
	SessionID     string         `gorm:"type:varchar(64);index"`
	UserEmail     string         `gorm:"type:varchar(128);index"`
	Prompt        string         `gorm:"type:text"`
	PresetOptions datatypes.JSON `gorm:"type:jsonb"`
	Comment       string         `gorm:"type:varchar(255)"`
	Positive      bool           `gorm:"not null"`
}

// TableName specifies the table name for Feedback.
func (Feedback) TableName() string {
	return "user_feedback"
}

// EtoD converts the database entity to the domain model.
func (f *Feedback) EtoD() *feedback.Feedback {
	var presets []string
	if len(f.PresetOptions) > 0 {
		_ = json.Unmarshal(f.PresetOptions, &presets)
	}

	return &feedback.Feedback{
		ID:            f.ID,
		FeedbackID:    f.FeedbackID,
		MessageID:     f.MessageID,
		SessionID:     f.SessionID,
		UserEmail:     f.UserEmail,
		Prompt:        f.Prompt,
		PresetOptions: presets,
		Comment:       f.Comment,
		Positive:      f.Positive,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// NewSchemaFeedback creates a feedback entity from the domain model.
func NewSchemaFeedback(fb *feedback.Feedback) (*Feedback, error) {
	var presets datatypes.JSON
	if fb.PresetOptions != nil {
		raw, err := json.Marshal(fb.PresetOptions)
		if err != nil {
			return nil, err
		}
		presets = datatypes.JSON(raw)
	}

	return &Feedback{
		ID:            fb.ID,
		FeedbackID:    fb.FeedbackID,
		MessageID:     fb.MessageID,
		SessionID:     fb.SessionID,
		UserEmail:     fb.UserEmail,
		Prompt:        fb.Prompt,
		PresetOptions: presets,
		Comment:       fb.Comment,
		Positive:      fb.Positive,
	}, nil
}
