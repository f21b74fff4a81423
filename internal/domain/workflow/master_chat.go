package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/llm"
)

// TextCompleter is the blocking model call workflows depend on. The llm
// Gateway satisfies it.
type TextCompleter interface {
	Complete(ctx context.Context, req llm.ChatCompletionRequest) (string, *llm.Usage, error)
}

// StreamCompleter is the streaming model call used for the narrative stage
// when the client consumes partial output. The llm Gateway satisfies it.
type StreamCompleter interface {
	OpenStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error)
}

const noDataExplanation = `I couldn't retrieve stock data for your request. This could be due to limited data availability or the way the query was phrased. Want to try:
- Asking about a specific company's dividend, valuation, or fundamentals?
- Exploring top stocks by a specific metric like "highest free cash flow" or "best dividend growth"?
I can also provide market commentary or news if helpful!`

const screenPlannerSystemPrompt = `You translate stock-screening questions into a JSON screen. Respond with only a JSON object of the shape {"metrics":[...],"filters":[{"metric":...,"op":"lt|lte|gt|gte|eq","value":...}],"sort_by":...,"sort_desc":...,"limit":...}. No prose.`

const explainerSystemPrompt = `You are a financial assistant. Explain the tabular stock-screen result for the user's question in a short narrative. Do not invent numbers that are not in the data.`

const followUpSystemPrompt = `Suggest three short follow-up questions the user could ask next about these stocks. Respond with only a JSON array of strings.`

// masterChat runs the conversational pipeline: screen the stock universe,
// narrate the result, then suggest follow-ups. Partial sections are pushed
// to the observer as they finish.
type masterChat struct {
	completer     TextCompleter
	screener      Screener
	model         string
	contextLength int
	log           zerolog.Logger
}

// NewMasterChat builds the conversational stock-screening workflow.
// contextLength is the model's context window in tokens; zero or negative
// falls back to llm.DefaultContextLength.
func NewMasterChat(completer TextCompleter, screener Screener, model string, contextLength int, log zerolog.Logger) Workflow {
	if contextLength <= 0 {
		contextLength = llm.DefaultContextLength
	}
	return &masterChat{
		completer:     completer,
		screener:      screener,
		model:         model,
		contextLength: contextLength,
		log:           log.With().Str("component", "master-chat-workflow").Logger(),
	}
}

func (w *masterChat) Name() string { return NameMasterChat }

func (w *masterChat) Execute(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	screen, err := w.runScreen(ctx, req)
	if err != nil {
		return nil, err
	}
	result.StockData = screen
	emit(req, SectionStockData, screen)

	if len(screen.RDSData) == 0 {
		result.Explanation = &ExplanationSection{
			Explanation: noDataExplanation,
			MessageID:   uuid.NewString(),
		}
		emit(req, SectionExplanation, result.Explanation)
		return result, nil
	}

	explanation, err := w.explain(ctx, req, screen)
	if err != nil {
		return nil, err
	}
	result.Explanation = explanation
	emit(req, SectionExplanation, explanation)

	followUps, err := w.followUps(ctx, req, explanation.Explanation)
	if err != nil {
		// Follow-ups are best effort; the screen and narrative already
		// answered the question.
		w.log.Warn().Err(err).Msg("follow-up generation failed")
		result.ErrorMessage = err.Error()
		return result, nil
	}
	result.FollowUps = followUps
	emit(req, SectionFollowUps, followUps)

	return result, nil
}

// runScreen asks the model for a structured screen and executes it. An
// unparseable plan degrades to an empty result rather than failing the call.
func (w *masterChat) runScreen(ctx context.Context, req Request) (*StockDataSection, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: screenPlannerSystemPrompt}}
	for _, turn := range req.History {
		messages = append(messages, llm.ChatMessage{Role: "user", Content: turn.Prompt})
		if text := turn.ResponseText(); text != "" {
			messages = append(messages, llm.ChatMessage{Role: "assistant", Content: text})
		}
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: req.Prompt})

	trimmed := llm.TrimMessagesToFitContext(messages, w.contextLength)
	if trimmed.TrimmedCount > 0 {
		w.log.Debug().Int("trimmed", trimmed.TrimmedCount).Msg("history trimmed to fit context window")
	}

	raw, _, err := w.completer.Complete(ctx, llm.ChatCompletionRequest{
		Model:    w.model,
		Messages: trimmed.Messages,
	})
	if err != nil {
		return nil, err
	}

	var plan ScreenRequest
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &plan); err != nil {
		w.log.Warn().Err(err).Str("raw", raw).Msg("screen plan unparseable")
		return &StockDataSection{RDSData: []map[string]interface{}{}, MessageID: uuid.NewString()}, nil
	}

	screened, err := w.screener.Screen(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &StockDataSection{
		RDSData:    screened.Rows,
		RDSColumns: screened.Columns,
		MessageID:  uuid.NewString(),
	}, nil
}

func (w *masterChat) explain(ctx context.Context, req Request, screen *StockDataSection) (*ExplanationSection, error) {
	table, err := json.Marshal(map[string]interface{}{
		"data":    screen.RDSData,
		"columns": screen.RDSColumns,
	})
	if err != nil {
		return nil, err
	}

	modelReq := llm.ChatCompletionRequest{
		Model: w.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: explainerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Question: %s\nScreen result: %s", req.Prompt, table)},
		},
	}

	// Streaming clients consume the narrative over the streaming transport so
	// a dropped connection stops upstream token generation.
	if streamer, ok := w.completer.(StreamCompleter); ok && req.Stream {
		text, err := collectStream(ctx, streamer, modelReq)
		if err != nil {
			return nil, err
		}
		return &ExplanationSection{Explanation: text, MessageID: uuid.NewString()}, nil
	}

	text, _, err := w.completer.Complete(ctx, modelReq)
	if err != nil {
		return nil, err
	}
	return &ExplanationSection{Explanation: text, MessageID: uuid.NewString()}, nil
}

// collectStream drains a model stream into the full narrative text. The
// stream is finite and non-restartable; a cancelled ctx ends consumption.
func collectStream(ctx context.Context, streamer StreamCompleter, req llm.ChatCompletionRequest) (string, error) {
	stream, err := streamer.OpenStream(ctx, req)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		for _, choice := range delta.Choices {
			sb.WriteString(choice.Delta.Content)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (w *masterChat) followUps(ctx context.Context, req Request, narrative string) (*FollowUpSection, error) {
	text, _, err := w.completer.Complete(ctx, llm.ChatCompletionRequest{
		Model: w.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: followUpSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Question: %s\nAnswer: %s", req.Prompt, narrative)},
		},
	})
	if err != nil {
		return nil, err
	}
	return &FollowUpSection{
		FollowUpQuestions: parseQuestionList(text),
		MessageID:         uuid.NewString(),
	}, nil
}

func emit(req Request, section string, payload interface{}) {
	if req.Stream && req.Observer != nil {
		req.Observer.OnPartial(section, payload)
	}
}

// stripCodeFence removes a surrounding markdown fence some models add around
// JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseQuestionList accepts either a JSON array of strings or newline
// separated text.
func parseQuestionList(raw string) []string {
	raw = stripCodeFence(raw)

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err == nil {
		return questions
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}
