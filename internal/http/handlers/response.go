// Package handlers implements the operations API endpoints: per-chat
// statistics and recent-message windows over the summarizer's message log.
//
// Every failure goes through fail(), so all endpoints share one error
// envelope with a stable machine-readable code, and every 5xx is logged with
// request context before it leaves the process. Success bodies are plain
// DTOs written with ok().
//
// Error envelope:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "bad_request",
//	  "message": "chat id must be an integer"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DeliriumPulse/Summary/internal/http/middleware"
)

// ErrorResponse is the error envelope every endpoint returns on failure.
type ErrorResponse struct {
	// Correlates server logs and client errors; echoed from X-Request-ID.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"bad_request"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"chat id must be an integer"`
}

// fail aborts the request with the standard envelope. Statuses >= 500 are
// logged through the request-scoped logger so server faults always leave a
// trace with the correlation ID attached.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail exposes fail() to the router for NoRoute/NoMethod fallbacks, keeping
// those responses in the same envelope as handler errors.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
