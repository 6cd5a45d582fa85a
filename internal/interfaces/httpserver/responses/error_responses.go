package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petal-studio/server/internal/utils/platformerrors"
)

// ErrorResponse is the uniform error body. The message key is always present
// so clients can render a single field regardless of failure class.
type ErrorResponse struct {
	Code      string `json:"code,omitempty"` // UUID from PlatformError
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// HandleError maps domain errors to HTTP responses. Platform errors carry
// their own status class; anything else is an internal error.
func HandleError(reqCtx *gin.Context, err error, fallback string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		message := domainErr.Message
		if message == "" {
			message = fallback
		}
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType()), ErrorResponse{
			Code:      domainErr.GetUUID(),
			Message:   message,
			RequestID: domainErr.GetRequestID(),
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: fallback})
}

// HandleValidationError reports a 400 with the schema violation message.
func HandleValidationError(reqCtx *gin.Context, err error) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
}
