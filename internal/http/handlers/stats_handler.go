// Chat statistics HTTP handlers.
//
// This file exposes the read-only operations endpoint for per-chat counters:
//   - GET /chats/{id}/stats
//
// The operations API is a diagnostics surface for the bot operator: it never
// mutates the message log (the Telegram front-end is the only writer), so all
// handlers here are transport-thin reads that validate input, call the
// application service, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DeliriumPulse/Summary/internal/domain"
	"github.com/DeliriumPulse/Summary/internal/repo"
)

//
// Service contracts (context-aware)
//

// MessageReader defines the read-side operations over the message log
// consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MessageReader interface {
	// Recent returns up to limit messages of a chat in chronological order,
	// optionally restricted to messages strictly older than before.
	Recent(ctx context.Context, chatID int64, limit int, before *time.Time) ([]domain.Message, error)
	// Statistics returns aggregate counters for one chat.
	Statistics(ctx context.Context, chatID int64) (repo.ChatStats, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the operations API. It depends on an
// abstract reader interface to keep transport concerns separate from the
// message-log implementation.
type Handlers struct {
	msgSvc MessageReader
}

// New constructs and returns a Handlers instance bound to the given service.
func New(msgSvc MessageReader) *Handlers {
	return &Handlers{msgSvc: msgSvc}
}

//
// DTOs
//

// ChatStatsResponse is the JSON envelope for per-chat aggregate counters.
//
// FirstMessage and LastMessage are omitted for chats with no stored
// messages.
type ChatStatsResponse struct {
	// ChatID is the Telegram chat identifier (negative for groups).
	ChatID int64 `json:"chat_id" example:"-1001234567890"`
	// TotalMessages is the number of stored rows for the chat.
	TotalMessages int64 `json:"total_messages" example:"4231"`
	// UniqueUsers counts distinct non-null author identifiers.
	UniqueUsers int64 `json:"unique_users" example:"17"`
	// FirstMessage is the oldest capture timestamp, if any.
	FirstMessage *time.Time `json:"first_message,omitempty"`
	// LastMessage is the newest capture timestamp, if any.
	LastMessage *time.Time `json:"last_message,omitempty"`
}

//
// Helpers
//

// chatIDParam parses the :id path segment as a Telegram chat identifier.
// Group and supergroup chats carry negative identifiers, so the full signed
// 64-bit range is accepted.
func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

//
// Handlers
//

// ChatStats godoc
// @ID          chatStats
// @Summary     Chat statistics
// @Description Returns aggregate counters for one chat: total stored messages,
// @Description distinct authors, and the first/last capture timestamps.
// @Tags        Chats
// @Produce     json
//
// @Param       id  path  integer  true  "Telegram chat ID (negative for groups)"  example(-1001234567890)
//
// @Success     200  {object}  handlers.ChatStatsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats/{id}/stats [get]
func (h *Handlers) ChatStats(c *gin.Context) {
	ctx := c.Request.Context()

	chatID, okID := chatIDParam(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be an integer")
		return
	}

	st, err := h.msgSvc.Statistics(ctx, chatID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ChatStatsResponse{
		ChatID:        chatID,
		TotalMessages: st.TotalMessages,
		UniqueUsers:   st.UniqueUsers,
		FirstMessage:  st.FirstMessage,
		LastMessage:   st.LastMessage,
	})
}
