package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/chat"
	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
)

// MockChatService is a mock implementation of chat.Service for testing.
type MockChatService struct {
	ExecuteFunc            func(ctx context.Context, req chat.Request) envelope.Envelope
	ExecuteStreamFunc      func(ctx context.Context, req chat.Request, emit chat.EmitFunc)
	EnqueueFunc            func(ctx context.Context, req chat.Request) envelope.Envelope
	StatusFunc             func(ctx context.Context, requestID string) envelope.Envelope
	GetConversationFunc    func(ctx context.Context, conversationID string) envelope.Envelope
	DeleteConversationFunc func(ctx context.Context, conversationID string) envelope.Envelope
}

func (m *MockChatService) Execute(ctx context.Context, req chat.Request) envelope.Envelope {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return envelope.Envelope{}
}

func (m *MockChatService) ExecuteStream(ctx context.Context, req chat.Request, emit chat.EmitFunc) {
	if m.ExecuteStreamFunc != nil {
		m.ExecuteStreamFunc(ctx, req, emit)
	}
}

func (m *MockChatService) Enqueue(ctx context.Context, req chat.Request) envelope.Envelope {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, req)
	}
	return envelope.Envelope{}
}

func (m *MockChatService) Status(ctx context.Context, requestID string) envelope.Envelope {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, requestID)
	}
	return envelope.Envelope{}
}

func (m *MockChatService) GetConversation(ctx context.Context, conversationID string) envelope.Envelope {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, conversationID)
	}
	return envelope.Envelope{}
}

func (m *MockChatService) DeleteConversation(ctx context.Context, conversationID string) envelope.Envelope {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(ctx, conversationID)
	}
	return envelope.Envelope{}
}

func strPtr(s string) *string { return &s }

func setupChatTestRouter(handler *handlers.ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", handler.Chat)
	r.POST("/query", handler.Query)
	return r
}

func TestChatHandler_Chat(t *testing.T) {
	mockService := &MockChatService{
		ExecuteFunc: func(ctx context.Context, req chat.Request) envelope.Envelope {
			if req.Kind != workflow.KindChat {
				t.Errorf("Expected chat kind, got %v", req.Kind)
			}
			if req.Prompt != "top gainers today" {
				t.Errorf("Unexpected prompt %q", req.Prompt)
			}
			return envelope.Envelope{
				Response:       "here are the top gainers",
				RequestID:      "req-1",
				ConversationID: strPtr("conv-1"),
				Workflow:       strPtr(workflow.NameMasterChat),
				Status:         strPtr("completed"),
			}
		},
	}

	handler := handlers.NewChatHandler(mockService, zerolog.Nop())
	router := setupChatTestRouter(handler)

	body, _ := json.Marshal(map[string]interface{}{
		"prompt":     "top gainers today",
		"parameters": map[string]interface{}{"session_id": "sess-1"},
	})
	req, _ := http.NewRequest("POST", "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["response"] != "here are the top gainers" {
		t.Errorf("Unexpected response field: %v", response["response"])
	}
	if response["status"] != "completed" {
		t.Errorf("Expected completed status, got %v", response["status"])
	}
	if response["error"] != nil {
		t.Errorf("Expected null error, got %v", response["error"])
	}
}

func TestChatHandler_Chat_MissingPrompt(t *testing.T) {
	handler := handlers.NewChatHandler(&MockChatService{}, zerolog.Nop())
	router := setupChatTestRouter(handler)

	req, _ := http.NewRequest("POST", "/chat", strings.NewReader(`{"parameters":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["error"] == nil {
		t.Error("Expected error message in envelope")
	}
	if response["response"] != nil {
		t.Errorf("Expected null response, got %v", response["response"])
	}
}

func TestChatHandler_Chat_Stream(t *testing.T) {
	mockService := &MockChatService{
		ExecuteStreamFunc: func(ctx context.Context, req chat.Request, emit chat.EmitFunc) {
			_ = emit(envelope.Envelope{
				RequestID: "req-1",
				Status:    strPtr("processing"),
				Data:      map[string]interface{}{"stock_data": map[string]interface{}{}},
			})
			_ = emit(envelope.Envelope{
				Response:  "done",
				RequestID: "req-1",
				Status:    strPtr("completed"),
			})
		},
	}

	handler := handlers.NewChatHandler(mockService, zerolog.Nop())
	router := setupChatTestRouter(handler)

	body := `{"prompt":"screen stocks","stream":true}`
	req, _ := http.NewRequest("POST", "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Expected NDJSON content type, got %q", ct)
	}

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var env map[string]interface{}
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			t.Fatalf("Invalid NDJSON line %q: %v", line, err)
		}
		lines = append(lines, env)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 envelopes, got %d", len(lines))
	}
	if lines[0]["status"] != "processing" {
		t.Errorf("Expected first envelope processing, got %v", lines[0]["status"])
	}
	if lines[1]["status"] != "completed" {
		t.Errorf("Expected last envelope completed, got %v", lines[1]["status"])
	}
}

func TestChatHandler_Chat_Background(t *testing.T) {
	enqueued := false
	mockService := &MockChatService{
		EnqueueFunc: func(ctx context.Context, req chat.Request) envelope.Envelope {
			enqueued = true
			return envelope.Envelope{
				RequestID: "req-bg",
				Status:    strPtr("processing"),
			}
		},
	}

	handler := handlers.NewChatHandler(mockService, zerolog.Nop())
	router := setupChatTestRouter(handler)

	body := `{"prompt":"screen stocks","background":true}`
	req, _ := http.NewRequest("POST", "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !enqueued {
		t.Error("Expected request to be enqueued")
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["status"] != "processing" {
		t.Errorf("Expected processing status, got %v", response["status"])
	}
}

func TestChatHandler_Query(t *testing.T) {
	mockService := &MockChatService{
		ExecuteFunc: func(ctx context.Context, req chat.Request) envelope.Envelope {
			if req.Kind != workflow.KindQuery {
				t.Errorf("Expected query kind, got %v", req.Kind)
			}
			return envelope.Envelope{
				Response:  "query result",
				RequestID: "req-q",
				Workflow:  strPtr(workflow.NameDirectQuery),
			}
		},
	}

	handler := handlers.NewChatHandler(mockService, zerolog.Nop())
	router := setupChatTestRouter(handler)

	req, _ := http.NewRequest("POST", "/query", strings.NewReader(`{"prompt":"pe ratio below 10"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["workflow"] != workflow.NameDirectQuery {
		t.Errorf("Expected direct query workflow, got %v", response["workflow"])
	}
	if _, present := response["status"]; present && response["status"] != nil {
		t.Errorf("Expected null status for one-shot query, got %v", response["status"])
	}
}
