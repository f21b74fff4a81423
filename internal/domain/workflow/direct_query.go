package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/llm"
)

// directQuery answers a bare prompt with one screen plus a narrative. No
// conversation continuity and no follow-up suggestions.
type directQuery struct {
	completer TextCompleter
	screener  Screener
	model     string
	log       zerolog.Logger
}

// NewDirectQuery builds the one-shot query workflow.
func NewDirectQuery(completer TextCompleter, screener Screener, model string, log zerolog.Logger) Workflow {
	return &directQuery{
		completer: completer,
		screener:  screener,
		model:     model,
		log:       log.With().Str("component", "direct-query-workflow").Logger(),
	}
}

func (w *directQuery) Name() string { return NameDirectQuery }

func (w *directQuery) Execute(ctx context.Context, req Request) (*Result, error) {
	raw, _, err := w.completer.Complete(ctx, llm.ChatCompletionRequest{
		Model: w.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: screenPlannerSystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	result := &Result{}

	var plan ScreenRequest
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &plan); err != nil {
		w.log.Warn().Err(err).Msg("screen plan unparseable")
		result.StockData = &StockDataSection{RDSData: []map[string]interface{}{}, MessageID: uuid.NewString()}
		result.Explanation = &ExplanationSection{Explanation: noDataExplanation, MessageID: uuid.NewString()}
		return result, nil
	}

	screened, err := w.screener.Screen(ctx, plan)
	if err != nil {
		return nil, err
	}
	result.StockData = &StockDataSection{
		RDSData:    screened.Rows,
		RDSColumns: screened.Columns,
		MessageID:  uuid.NewString(),
	}

	if len(screened.Rows) == 0 {
		result.Explanation = &ExplanationSection{Explanation: noDataExplanation, MessageID: uuid.NewString()}
		return result, nil
	}

	table, err := json.Marshal(map[string]interface{}{"data": screened.Rows, "columns": screened.Columns})
	if err != nil {
		return nil, err
	}
	text, _, err := w.completer.Complete(ctx, llm.ChatCompletionRequest{
		Model: w.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: explainerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Question: %s\nScreen result: %s", req.Prompt, table)},
		},
	})
	if err != nil {
		return nil, err
	}
	result.Explanation = &ExplanationSection{Explanation: text, MessageID: uuid.NewString()}
	return result, nil
}
