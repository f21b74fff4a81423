package llmprovider

import (
	"context"
	"fmt"
	"net/http"

	"newsagents/services/chat-api/internal/domain/llm"
)

// modelResponse mirrors the OpenAI-compatible /v1/models/{id} response.
type modelResponse struct {
	ID            string `json:"id"`
	ContextLength *int   `json:"context_length,omitempty"`
	MaxTokens     *int   `json:"max_tokens,omitempty"`
}

// GetModelInfo fetches model metadata from the inference service. A missing
// model returns nil info so the caller can fall back to defaults.
func (c *Client) GetModelInfo(ctx context.Context, modelID string) (*llm.ModelInfo, error) {
	var resp modelResponse

	request := c.httpClient.R().
		SetContext(ctx).
		SetResult(&resp)

	if auth := c.authHeader(ctx); auth != "" {
		request.SetHeader("Authorization", auth)
	}

	httpResp, err := request.Get(fmt.Sprintf("/v1/models/%s", modelID))
	if err != nil {
		return nil, fmt.Errorf("fetch model info: %w", err)
	}

	if httpResp.IsError() {
		if httpResp.StatusCode() == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("llm api error: status %d: %s", httpResp.StatusCode(), httpResp.String())
	}

	return &llm.ModelInfo{
		ID:            resp.ID,
		ContextLength: resp.ContextLength,
		MaxTokens:     resp.MaxTokens,
	}, nil
}

// Ensure interface compliance.
var _ llm.ModelInfoProvider = (*Client)(nil)
