// Package responses maps domain results and errors onto HTTP responses.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsagents/services/chat-api/internal/domain/envelope"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

// WriteEnvelope sends an envelope with the given HTTP status. Business
// outcomes, success or failure, ride on 200; transport-level statuses are
// reserved for ingress validation and resource lookups.
func WriteEnvelope(reqCtx *gin.Context, statusCode int, env envelope.Envelope) {
	reqCtx.JSON(statusCode, env)
}

// HandleBindError rejects a malformed payload before a request id exists.
func HandleBindError(reqCtx *gin.Context, err error) {
	appErr := apperrors.New(reqCtx.Request.Context(), apperrors.LayerHandler,
		apperrors.ErrorTypeValidation, "malformed request payload", err)
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, envelope.Failure(appErr, "", nil, nil))
}
