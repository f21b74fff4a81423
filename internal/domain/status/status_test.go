package status_test

import (
	"errors"
	"testing"

	"newsagents/services/chat-api/internal/domain/status"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   status.Status
		terminal bool
	}{
		{status.StatusProcessing, false},
		{status.StatusCompleted, true},
		{status.StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    status.Status
		to      status.Status
		allowed bool
	}{
		{"processing to completed", status.StatusProcessing, status.StatusCompleted, true},
		{"processing to failed", status.StatusProcessing, status.StatusFailed, true},
		{"completed is final", status.StatusCompleted, status.StatusFailed, false},
		{"completed cannot restart", status.StatusCompleted, status.StatusProcessing, false},
		{"failed is final", status.StatusFailed, status.StatusCompleted, false},
		{"unknown status has no transitions", status.Status("queued"), status.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestStatus_TransitionTo(t *testing.T) {
	next, err := status.StatusProcessing.TransitionTo(status.StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != status.StatusCompleted {
		t.Fatalf("expected completed, got %s", next)
	}

	next, err = status.StatusCompleted.TransitionTo(status.StatusFailed)
	if !errors.Is(err, status.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if next != status.StatusCompleted {
		t.Fatalf("status must not change on invalid transition, got %s", next)
	}
}
