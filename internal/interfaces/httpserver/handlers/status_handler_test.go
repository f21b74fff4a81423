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

func setupStatusTestRouter(handler *handlers.StatusHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/status/:request_id", handler.Get)
	return r
}

func TestStatusHandler_Get(t *testing.T) {
	mockService := &MockChatService{
		StatusFunc: func(ctx context.Context, requestID string) envelope.Envelope {
			return envelope.Envelope{
				Response:  "completed",
				RequestID: requestID,
				Status:    strPtr("completed"),
			}
		},
	}

	handler := handlers.NewStatusHandler(mockService, zerolog.Nop())
	router := setupStatusTestRouter(handler)

	req, _ := http.NewRequest("GET", "/status/req-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["request_id"] != "req-123" {
		t.Errorf("Expected request id 'req-123', got %v", response["request_id"])
	}
	if response["status"] != "completed" {
		t.Errorf("Expected completed status, got %v", response["status"])
	}
}

func TestStatusHandler_Get_Unknown(t *testing.T) {
	mockService := &MockChatService{
		StatusFunc: func(ctx context.Context, requestID string) envelope.Envelope {
			notFound := apperrors.New(ctx, apperrors.LayerDomain, apperrors.ErrorTypeNotFound, "request_id not found", nil)
			return envelope.Failure(notFound, requestID, nil, nil)
		},
	}

	handler := handlers.NewStatusHandler(mockService, zerolog.Nop())
	router := setupStatusTestRouter(handler)

	req, _ := http.NewRequest("GET", "/status/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["error"] == nil {
		t.Error("Expected error message in envelope")
	}
	if response["status"] != "failed" {
		t.Errorf("Expected failed status, got %v", response["status"])
	}
}

func TestStatusHandler_Get_InfrastructureFailureIsNot404(t *testing.T) {
	mockService := &MockChatService{
		StatusFunc: func(ctx context.Context, requestID string) envelope.Envelope {
			dbErr := apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError, "status lookup failed", errors.New("connection refused"))
			return envelope.Failure(dbErr, requestID, nil, nil)
		},
	}

	handler := handlers.NewStatusHandler(mockService, zerolog.Nop())
	router := setupStatusTestRouter(handler)

	req, _ := http.NewRequest("GET", "/status/req-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
}
