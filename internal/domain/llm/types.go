package llm

import "context"

// Provider defines the contract for calling the model inference service.
type Provider interface {
	CreateChatCompletion(reqCtx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	CreateChatCompletionStream(reqCtx context.Context, req ChatCompletionRequest) (Stream, error)
}

// Stream abstracts an SSE or chunked response from the inference service.
// Recv returns io.EOF once the upstream finishes; Close cancels consumption.
type Stream interface {
	Recv() (*ChatCompletionDelta, error)
	Close() error
}

// ChatCompletionRequest mirrors the OpenAI-compatible request shape exposed by the inference service.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// ChatMessage represents a single message in the model conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse captures the non-streaming completion payload.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *Usage                 `json:"usage,omitempty"`
}

// ChatCompletionChoice represents one completion choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token accounting metadata.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionDelta represents a streaming chunk.
type ChatCompletionDelta struct {
	Choices []ChatCompletionDeltaChoice `json:"choices"`
}

// ChatCompletionDeltaChoice mirrors OpenAI streaming deltas.
type ChatCompletionDeltaChoice struct {
	Delta        ChatMessage `json:"delta"`
	FinishReason string      `json:"finish_reason"`
	Index        int         `json:"index"`
}
