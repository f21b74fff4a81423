// Package status defines the shared lifecycle states for tracked requests.
package status

import "errors"

// Status represents the lifecycle status of a tracked request.
type Status string

const (
	// StatusProcessing means the request entered asynchronous handling.
	StatusProcessing Status = "processing"

	// Terminal states (no further transitions allowed)
	StatusCompleted Status = "completed" // Successfully finished
	StatusFailed    Status = "failed"    // Unrecoverable error or cancellation
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ValidTransitions defines allowed status transitions.
var ValidTransitions = map[Status][]Status{
	StatusProcessing: {StatusCompleted, StatusFailed},
	// Terminal states have no valid transitions
	StatusCompleted: {},
	StatusFailed:    {},
}

// CanTransitionTo checks if a transition from the current status to the target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	validTargets, ok := ValidTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target status and returns an error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
