package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the error body shape shared by all endpoints.
type HTTPErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HTTPValidationResponse carries per-field validation errors.
type HTTPValidationResponse struct {
	Success bool   `json:"success"`
	Errors  string `json:"errors"`
}

// WriteError writes err as an HTTP response. PlatformErrors are mapped to
// their status code; anything else becomes a 500 with the raw message.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{Error: "unknown error"})
		return
	}

	platformErr := GetPlatformError(err)
	if platformErr == nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{Error: err.Error()})
		return
	}

	status := ErrorTypeToHTTPStatus(platformErr.Type)
	event := log.Warn()
	if status >= 500 {
		event = log.Error()
	}
	event.Err(platformErr).
		Str("error_type", string(platformErr.Type)).
		Str("layer", string(platformErr.Layer)).
		Str("request_id", platformErr.RequestID).
		Msg(platformErr.Message)

	c.JSON(status, HTTPErrorResponse{Error: platformErr.Message})
}

// WriteValidationError writes a 400 Bad Request with binding errors.
func WriteValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, HTTPValidationResponse{Errors: err.Error()})
}
