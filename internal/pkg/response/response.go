// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "kilofit-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithWarning reports a completed primary operation whose secondary
// step failed. The caller stays on the success path; the warning is for
// manual reconciliation.
func SuccessWithWarning(c *gin.Context, message, warning string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Warning: warning,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// FromError maps the error taxonomy onto HTTP statuses and messages. Network
// failures are reported as possibly-succeeded so the operator verifies
// instead of blindly retrying a non-idempotent mutation.
func FromError(c *gin.Context, fallback string, err error) {
	var vErr *xerrors.ValidationError
	if errors.As(err, &vErr) {
		Error(c, http.StatusBadRequest, vErr.Message, vErr)
		return
	}

	var nErr *xerrors.NetworkError
	if errors.As(err, &nErr) {
		Error(c, http.StatusBadGateway,
			"the operation may have completed; refresh and verify before retrying", err)
		return
	}

	var uErr *xerrors.UpstreamError
	if errors.As(err, &uErr) {
		Error(c, http.StatusBadRequest, uErr.Detail, err)
		return
	}

	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, fallback, err)
	case errors.Is(err, xerrors.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, fallback, err)
	case errors.Is(err, xerrors.ErrForbidden):
		Error(c, http.StatusForbidden, fallback, err)
	case errors.Is(err, xerrors.ErrConflict):
		Error(c, http.StatusConflict, fallback, err)
	default:
		Error(c, http.StatusBadRequest, fallback, err)
	}
}
