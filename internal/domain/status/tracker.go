package status

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a request id is unknown or has been evicted
// from the retention window.
var ErrNotFound = errors.New("request id not found")

// Entry is the tracked state of one request.
type Entry struct {
	RequestID string      `json:"request_id"`
	State     Status      `json:"state"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Tracker records progress of asynchronous requests keyed by request id.
// Transitions follow the state machine: terminal states are final and a
// second transition attempt returns ErrInvalidTransition.
type Tracker interface {
	// Start registers the request in StatusProcessing.
	Start(ctx context.Context, requestID string) error

	// Complete moves the request to StatusCompleted with a result reference.
	Complete(ctx context.Context, requestID string, result interface{}) error

	// Fail moves the request to StatusFailed with an error summary.
	Fail(ctx context.Context, requestID string, reason string) error

	// Get returns the current entry or ErrNotFound.
	Get(ctx context.Context, requestID string) (*Entry, error)
}
