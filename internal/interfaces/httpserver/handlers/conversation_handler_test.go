package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/interfaces/httpserver/handlers"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

func setupConversationTestRouter(handler *handlers.ConversationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/conversations/:conversation_id", handler.Get)
	r.DELETE("/conversations/:conversation_id", handler.Delete)
	return r
}

func TestConversationHandler_Get(t *testing.T) {
	mockService := &MockChatService{
		GetConversationFunc: func(ctx context.Context, conversationID string) envelope.Envelope {
			return envelope.Envelope{
				Response:       map[string]interface{}{"id": conversationID, "turns": []interface{}{}},
				RequestID:      "req-1",
				ConversationID: strPtr(conversationID),
			}
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("GET", "/conversations/conv-42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["conversation_id"] != "conv-42" {
		t.Errorf("Expected conversation id 'conv-42', got %v", response["conversation_id"])
	}
}

func TestConversationHandler_Get_Unknown(t *testing.T) {
	mockService := &MockChatService{
		GetConversationFunc: func(ctx context.Context, conversationID string) envelope.Envelope {
			notFound := apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "conversation not found", nil)
			return envelope.Failure(notFound, "req-1", strPtr(conversationID), nil)
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("GET", "/conversations/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
}

func TestConversationHandler_Get_DatabaseFailureIsNot404(t *testing.T) {
	mockService := &MockChatService{
		GetConversationFunc: func(ctx context.Context, conversationID string) envelope.Envelope {
			dbErr := apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError, "conversation lookup failed", errors.New("connection refused"))
			return envelope.Failure(dbErr, "req-1", strPtr(conversationID), nil)
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("GET", "/conversations/conv-42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
}

func TestConversationHandler_Delete(t *testing.T) {
	mockService := &MockChatService{
		DeleteConversationFunc: func(ctx context.Context, conversationID string) envelope.Envelope {
			return envelope.Envelope{
				Response:       map[string]interface{}{"deleted": true},
				RequestID:      "req-1",
				ConversationID: strPtr(conversationID),
			}
		},
	}

	handler := handlers.NewConversationHandler(mockService, zerolog.Nop())
	router := setupConversationTestRouter(handler)

	req, _ := http.NewRequest("DELETE", "/conversations/conv-42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	payload, ok := response["response"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected deletion payload, got %T", response["response"])
	}
	if payload["deleted"] != true {
		t.Errorf("Expected deleted true, got %v", payload["deleted"])
	}
}
