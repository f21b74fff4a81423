// Package workflow selects and executes the named processing path for a request.
package workflow

import (
	"context"

	"newsagents/services/chat-api/internal/domain/conversation"
	"newsagents/services/chat-api/internal/domain/feedback"
)

// Workflow names surfaced in envelopes. Clients key off these strings.
const (
	NameMasterChat  = "master_chat_query"
	NameDirectQuery = "direct_query"
	NameFeedback    = "barrons_user_feedback"
)

// FeedbackPromptSentinel is the magic prompt value the legacy clients send
// to route a chat-shaped call into the feedback workflow.
const FeedbackPromptSentinel = "User-Feedback"

// Kind discriminates the request shape, decided once at ingress.
type Kind string

const (
	KindFeedback Kind = "feedback"
	KindChat     Kind = "chat"
	KindQuery    Kind = "query"
)

// Request carries everything a workflow needs to run.
type Request struct {
	Kind           Kind
	Prompt         string
	SessionID      string
	UserID         string
	UserEmail      string
	ConversationID string
	History        []conversation.Turn
	Feedback       *feedback.SubmitParams
	Stream         bool
	Observer       StreamObserver
}

// StreamObserver receives partial sections as a streaming workflow produces
// them. Implementations must be safe for single-goroutine sequential calls.
type StreamObserver interface {
	OnPartial(section string, payload interface{})
}

// Section keys in streamed partials and in the final result payload.
const (
	SectionStockData   = "stock_data"
	SectionExplanation = "stock_data_explanation"
	SectionFollowUps   = "follow_up_questions"
	SectionFeedback    = "feedback"
)

// StockDataSection is the tabular screen output.
type StockDataSection struct {
	RDSData    []map[string]interface{} `json:"rds_data"`
	RDSColumns []string                 `json:"rds_columns"`
	MessageID  string                   `json:"message_id,omitempty"`
}

// ExplanationSection narrates the screen output.
type ExplanationSection struct {
	Explanation string `json:"explanation"`
	MessageID   string `json:"message_id,omitempty"`
}

// FollowUpSection suggests next prompts.
type FollowUpSection struct {
	FollowUpQuestions []string `json:"follow_up_questions"`
	MessageID         string   `json:"message_id,omitempty"`
}

// Result is the structured output of one workflow execution. Sections not
// produced by the selected workflow stay nil and are omitted from JSON.
type Result struct {
	Workflow     string               `json:"-"`
	StockData    *StockDataSection    `json:"stock_data,omitempty"`
	Explanation  *ExplanationSection  `json:"stock_data_explanation,omitempty"`
	FollowUps    *FollowUpSection     `json:"follow_up_questions,omitempty"`
	Feedback     *feedback.Feedback   `json:"feedback,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
}

// Summary returns a short text form of the result for conversation history.
func (r *Result) Summary() string {
	if r == nil {
		return ""
	}
	if r.Explanation != nil && r.Explanation.Explanation != "" {
		return r.Explanation.Explanation
	}
	if r.Feedback != nil {
		return "feedback recorded"
	}
	return r.ErrorMessage
}

// Workflow executes one named processing path.
type Workflow interface {
	Name() string
	Execute(ctx context.Context, req Request) (*Result, error)
}

// Screener executes a structured stock screen against the metrics source.
type Screener interface {
	Screen(ctx context.Context, screen ScreenRequest) (*ScreenResult, error)
}

// ScreenRequest is the structured filter the planning step produces.
type ScreenRequest struct {
	Metrics  []string       `json:"metrics"`
	Filters  []MetricFilter `json:"filters"`
	SortBy   string         `json:"sort_by,omitempty"`
	SortDesc bool           `json:"sort_desc,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

// MetricFilter is one comparison in a screen. Op is one of lt, lte, gt,
// gte, eq.
type MetricFilter struct {
	Metric string  `json:"metric"`
	Op     string  `json:"op"`
	Value  float64 `json:"value"`
}

// ScreenResult is the raw tabular outcome of a screen.
type ScreenResult struct {
	Columns []string
	Rows    []map[string]interface{}
}
