package llm

import "unicode/utf8"

const (
	// DefaultContextLength is used when model context length is unknown.
	DefaultContextLength = 128000

	// TokenEstimateRatio estimates ~4 characters per token.
	TokenEstimateRatio = 4

	// MinMessagesToKeep ensures the system prompt and the latest user
	// message always survive trimming.
	MinMessagesToKeep = 2

	// SafetyMarginRatio reserves space for the response and overhead.
	SafetyMarginRatio = 0.80
)

// EstimateTokenCount provides a rough token estimate for a piece of text.
func EstimateTokenCount(text string) int {
	return utf8.RuneCountInString(text) / TokenEstimateRatio
}

// EstimateMessagesTokenCount estimates total tokens across all messages.
func EstimateMessagesTokenCount(messages []ChatMessage) int {
	total := 0
	for _, msg := range messages {
		// ~10 tokens of structural overhead per message
		total += 10
		total += EstimateTokenCount(msg.Content)
	}
	return total
}

// TrimMessagesResult contains the result of trimming messages.
type TrimMessagesResult struct {
	Messages        []ChatMessage
	TrimmedCount    int
	EstimatedTokens int
}

// TrimMessagesToFitContext drops the oldest history messages until the
// conversation fits the context window. The system prompt at index 0 and the
// final user message are never removed; assistant replies go before user
// prompts at the same age.
func TrimMessagesToFitContext(messages []ChatMessage, contextLength int) TrimMessagesResult {
	if contextLength <= 0 {
		contextLength = DefaultContextLength
	}

	maxTokens := int(float64(contextLength) * SafetyMarginRatio)

	currentTokens := EstimateMessagesTokenCount(messages)
	if currentTokens <= maxTokens {
		return TrimMessagesResult{
			Messages:        messages,
			TrimmedCount:    0,
			EstimatedTokens: currentTokens,
		}
	}

	result := make([]ChatMessage, len(messages))
	copy(result, messages)
	trimmedCount := 0

	for currentTokens > maxTokens && len(result) > MinMessagesToKeep {
		removedIdx := -1

		// Oldest assistant reply first; the paired user prompt alone is a
		// weaker but still useful context signal.
		for i := 1; i < len(result)-1; i++ {
			if result[i].Role == "assistant" {
				removedIdx = i
				break
			}
		}

		if removedIdx == -1 {
			for i := 1; i < len(result)-1; i++ {
				if result[i].Role == "user" {
					removedIdx = i
					break
				}
			}
		}

		if removedIdx == -1 {
			break
		}

		result = append(result[:removedIdx], result[removedIdx+1:]...)
		trimmedCount++
		currentTokens = EstimateMessagesTokenCount(result)
	}

	return TrimMessagesResult{
		Messages:        result,
		TrimmedCount:    trimmedCount,
		EstimatedTokens: currentTokens,
	}
}
