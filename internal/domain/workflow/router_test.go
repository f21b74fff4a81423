package workflow

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/feedback"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

type stubWorkflow struct {
	name     string
	executed bool
}

func (s *stubWorkflow) Name() string { return s.name }

func (s *stubWorkflow) Execute(ctx context.Context, req Request) (*Result, error) {
	s.executed = true
	return &Result{}, nil
}

func newTestRouter() (*Router, *stubWorkflow, *stubWorkflow, *stubWorkflow) {
	chat := &stubWorkflow{name: NameMasterChat}
	query := &stubWorkflow{name: NameDirectQuery}
	fb := &stubWorkflow{name: NameFeedback}
	return NewRouter(chat, query, fb, zerolog.Nop()), chat, query, fb
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected string
		wantErr  apperrors.ErrorType
	}{
		{
			name:     "chat kind",
			req:      Request{Kind: KindChat, Prompt: "show me growth stocks"},
			expected: NameMasterChat,
		},
		{
			name:     "query kind",
			req:      Request{Kind: KindQuery, Prompt: "low PE stocks"},
			expected: NameDirectQuery,
		},
		{
			name:     "feedback kind",
			req:      Request{Kind: KindFeedback},
			expected: NameFeedback,
		},
		{
			name:     "feedback params beat chat kind",
			req:      Request{Kind: KindChat, Feedback: &feedback.SubmitParams{MessageID: "m1"}},
			expected: NameFeedback,
		},
		{
			name:     "feedback sentinel prompt beats chat kind",
			req:      Request{Kind: KindChat, Prompt: FeedbackPromptSentinel},
			expected: NameFeedback,
		},
		{
			name:    "unknown kind is unroutable",
			req:     Request{Kind: Kind("batch")},
			wantErr: apperrors.ErrorTypeUnroutable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _, _ := newTestRouter()
			wf, err := router.Resolve(context.Background(), tt.req)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !apperrors.IsType(err, tt.wantErr) {
					t.Fatalf("expected %s error, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if wf.Name() != tt.expected {
				t.Errorf("expected workflow %q, got %q", tt.expected, wf.Name())
			}
		})
	}
}

func TestExecute_StampsWorkflowName(t *testing.T) {
	router, chat, _, _ := newTestRouter()

	result, err := router.Execute(context.Background(), Request{Kind: KindChat, Prompt: "hi"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !chat.executed {
		t.Error("expected chat workflow to run")
	}
	if result.Workflow != NameMasterChat {
		t.Errorf("expected workflow name stamped, got %q", result.Workflow)
	}
}
