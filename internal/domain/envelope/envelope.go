// Package envelope builds the fixed-shape response wrapper returned by every endpoint.
package envelope

import (
	"errors"

	"newsagents/services/chat-api/internal/domain/status"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// Envelope is the universal response wrapper. Every endpoint returns exactly
// this shape; unused fields are null. Exactly one of Response/Error carries
// the primary payload.
type Envelope struct {
	Response       interface{}            `json:"response"`
	RequestID      string                 `json:"request_id"`
	ConversationID *string                `json:"conversation_id"`
	Workflow       *string                `json:"workflow"`
	Status         *string                `json:"status"`
	Error          *string                `json:"error"`
	Data           map[string]interface{} `json:"data"`

	// ErrorType categorizes a failure for transport-status decisions. It
	// never reaches the wire; the body contract carries only the message.
	ErrorType apperrors.ErrorType `json:"-"`
}

// Build maps a successful payload into an envelope. A nil tracked status
// leaves the status field null (synchronous, non-tracked calls).
func Build(payload interface{}, requestID string, conversationID, workflow *string, tracked *status.Status, data map[string]interface{}) Envelope {
	env := Envelope{
		Response:       payload,
		RequestID:      requestID,
		ConversationID: conversationID,
		Workflow:       workflow,
		Data:           data,
	}
	if tracked != nil {
		s := tracked.String()
		env.Status = &s
	}
	if payload == nil {
		env.Response = ""
	}
	return env
}

// Failure maps an error into a failed envelope. It never panics: a nil error
// still produces a well-formed envelope with a generic message.
func Failure(err error, requestID string, conversationID, workflow *string) Envelope {
	message := "unknown error"
	errorType := apperrors.ErrorTypeInternal
	if err != nil {
		errorType = apperrors.TypeOf(err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		} else {
			message = err.Error()
		}
	}
	failed := status.StatusFailed.String()
	return Envelope{
		Response:       nil,
		RequestID:      requestID,
		ConversationID: conversationID,
		Workflow:       workflow,
		Status:         &failed,
		Error:          &message,
		ErrorType:      errorType,
	}
}
