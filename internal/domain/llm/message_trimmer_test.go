package llm

import (
	"strings"
	"testing"
)

func TestTrimMessagesToFitContext_NoTrimNeeded(t *testing.T) {
	messages := []ChatMessage{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "short question"},
	}

	result := TrimMessagesToFitContext(messages, 1000)

	if result.TrimmedCount != 0 {
		t.Errorf("expected no trimming, got %d removed", result.TrimmedCount)
	}
	if len(result.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(result.Messages))
	}
}

func TestTrimMessagesToFitContext_DropsOldestAssistantFirst(t *testing.T) {
	long := strings.Repeat("x", 4000)
	messages := []ChatMessage{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: long},
		{Role: "user", Content: "second question"},
		{Role: "assistant", Content: "short answer"},
		{Role: "user", Content: "final question"},
	}

	result := TrimMessagesToFitContext(messages, 800)

	if result.TrimmedCount == 0 {
		t.Fatal("expected messages to be trimmed")
	}
	for _, msg := range result.Messages {
		if msg.Content == long {
			t.Error("oldest long assistant message should be removed first")
		}
	}

	first := result.Messages[0]
	if first.Role != "system" {
		t.Errorf("system prompt must survive trimming, got role %q", first.Role)
	}
	last := result.Messages[len(result.Messages)-1]
	if last.Role != "user" || last.Content != "final question" {
		t.Errorf("latest user message must survive trimming, got %+v", last)
	}
}

func TestTrimMessagesToFitContext_KeepsMinimumMessages(t *testing.T) {
	messages := []ChatMessage{
		{Role: "system", Content: strings.Repeat("s", 8000)},
		{Role: "user", Content: strings.Repeat("u", 8000)},
	}

	result := TrimMessagesToFitContext(messages, 100)

	if len(result.Messages) != 2 {
		t.Errorf("expected system prompt and user message to survive, got %d messages", len(result.Messages))
	}
}

func TestEstimateMessagesTokenCount(t *testing.T) {
	messages := []ChatMessage{
		{Role: "user", Content: strings.Repeat("a", 400)},
	}

	got := EstimateMessagesTokenCount(messages)
	if got != 110 {
		t.Errorf("expected 110 estimated tokens, got %d", got)
	}
}
