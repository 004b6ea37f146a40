package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/logging"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/task"
)

var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, generator.ErrEmptyInput),
		errors.Is(err, llm.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, task.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrNotConfigured),
		errors.Is(err, task.ErrShutdown):
		return http.StatusServiceUnavailable
	case errors.Is(err, generator.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// the client went away, even if the upstream call reported it
		return 499
	case errors.Is(err, llm.ErrUpstream),
		errors.Is(err, llm.ErrEmptyReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as a JSON error response
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed", "status", status, "error", err)
	}
	ErrorResponse(c, status, err.Error())
}

// ErrorResponse represents an error response
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
