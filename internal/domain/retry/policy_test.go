package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsagents/services/chat-api/internal/domain/retry"
)

func TestPolicy_CalculateDelay(t *testing.T) {
	tests := []struct {
		name        string
		policy      retry.Policy
		attempt     int
		expectedMin time.Duration
		expectedMax time.Duration
	}{
		{
			name: "fixed backoff - attempt 1",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffFixed,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
				JitterFactor:    0,
			},
			attempt:     1,
			expectedMin: 100 * time.Millisecond,
			expectedMax: 100 * time.Millisecond,
		},
		{
			name: "linear backoff - attempt 3",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffLinear,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
				JitterFactor:    0,
			},
			attempt:     3,
			expectedMin: 300 * time.Millisecond,
			expectedMax: 300 * time.Millisecond,
		},
		{
			name: "exponential backoff - attempt 3",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffExponential,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        10 * time.Second,
				JitterFactor:    0,
			},
			attempt:     3,
			expectedMin: 400 * time.Millisecond,
			expectedMax: 400 * time.Millisecond,
		},
		{
			name: "respects max delay",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffExponential,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        200 * time.Millisecond,
				JitterFactor:    0,
			},
			attempt:     10,
			expectedMin: 200 * time.Millisecond,
			expectedMax: 200 * time.Millisecond,
		},
		{
			name: "zero attempt yields no delay",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffExponential,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
				JitterFactor:    0,
			},
			attempt:     0,
			expectedMin: 0,
			expectedMax: 0,
		},
		{
			name: "jitter stays within bounds",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffFixed,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
				JitterFactor:    0.5,
			},
			attempt:     1,
			expectedMin: 50 * time.Millisecond,
			expectedMax: 150 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay := tt.policy.CalculateDelay(tt.attempt)
			if delay < tt.expectedMin || delay > tt.expectedMax {
				t.Errorf("CalculateDelay(%d) = %v, want between %v and %v", tt.attempt, delay, tt.expectedMin, tt.expectedMax)
			}
		})
	}
}

func TestExecuteWithResult_SucceedsAfterRetries(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      3,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	calls := 0
	result, err := retry.ExecuteWithResult(context.Background(), policy, nil, func(ctx context.Context, attempt int) (string, error) {
		calls++
		if attempt < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteWithResult_StopsOnPermanentError(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      5,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	permanent := errors.New("bad credentials")
	calls := 0
	_, err := retry.ExecuteWithResult(context.Background(), policy, func(err error) bool { return false }, func(ctx context.Context, attempt int) (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("permanent errors must not be retried, got %d calls", calls)
	}
}

func TestExecuteWithResult_ExhaustsRetries(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      2,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	transient := errors.New("timeout")
	calls := 0
	_, err := retry.ExecuteWithResult(context.Background(), policy, func(err error) bool { return true }, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected MaxRetries+1 calls, got %d", calls)
	}
}

func TestExecuteWithResult_RespectsContextCancellation(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      10,
		InitialDelay:    50 * time.Millisecond,
		MaxDelay:        time.Second,
		BackoffStrategy: retry.BackoffFixed,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := retry.ExecuteWithResult(ctx, policy, func(err error) bool { return true }, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
