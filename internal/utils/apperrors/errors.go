package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION"
	ErrorTypeUnroutable    ErrorType = "UNROUTABLE_REQUEST"
	ErrorTypeUpstream      ErrorType = "UPSTREAM_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeCancelled     ErrorType = "CANCELLED"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeDatabaseError ErrorType = "DATABASE_ERROR"
	ErrorTypeInternal      ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

// AppError carries the error category plus enough context to build an envelope.
type AppError struct {
	Type      ErrorType
	Message   string
	Err       error
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Layer, e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the error type.
func (e *AppError) GetErrorType() ErrorType {
	return e.Type
}

// New creates an AppError with the given layer and type.
func New(ctx context.Context, layer Layer, errorType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: RequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap lifts an arbitrary error into an AppError, preserving the type when
// the cause is already typed.
func Wrap(ctx context.Context, layer Layer, err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return New(ctx, layer, appErr.Type, fmt.Sprintf("%s: %s", message, appErr.Message), appErr)
	}
	if errors.Is(err, context.Canceled) {
		return New(ctx, layer, ErrorTypeCancelled, message, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(ctx, layer, ErrorTypeUpstream, message, err)
	}
	return New(ctx, layer, ErrorTypeInternal, message, err)
}

// TypeOf returns the error type of any error, defaulting to INTERNAL.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether the error chain contains an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// Retryable reports whether the error represents a transient upstream failure.
func Retryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeUpstream
	}
	return false
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation, ErrorTypeUnroutable:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

type contextKey string

const requestIDKey contextKey = "requestID"

// ContextWithRequestID stores the request id for error enrichment.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id if one was provided.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
