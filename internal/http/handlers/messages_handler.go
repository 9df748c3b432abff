// Message window HTTP handlers.
//
// This file exposes the read-only operations endpoint over the message log:
//   - GET /chats/{id}/messages   (recent message window, oldest first)
//
// The window mirrors what the summarizer itself consumes: the last `limit`
// messages of a chat in chronological order, optionally bounded to messages
// strictly older than a given instant. Limits are normalized by the service
// layer (non-positive values fall back to the configured default window,
// oversized values are clamped), so the handler only validates shape.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DeliriumPulse/Summary/internal/domain"
	"github.com/DeliriumPulse/Summary/internal/utils"
)

//
// DTOs
//

// ListMessagesResponse contains a recent message window for one chat.
type ListMessagesResponse struct {
	// ChatID is the Telegram chat identifier the window belongs to.
	ChatID int64 `json:"chat_id" example:"-1001234567890"`
	// Count is the number of messages returned (may be below the requested
	// limit for short histories).
	Count int `json:"count" example:"20"`
	// Messages is the window in chronological order (oldest first).
	Messages []domain.Message `json:"messages"`
}

//
// Helpers
//

// beforeParam parses the optional `before` query parameter as an RFC 3339
// timestamp. It returns (nil, true) when the parameter is absent and
// (nil, false) when it is present but malformed.
func beforeParam(c *gin.Context) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query("before"))
	if raw == "" {
		return nil, true
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	u := ts.UTC()
	return &u, true
}

//
// Handlers
//

// ListMessages godoc
// @ID          listMessages
// @Summary     Recent messages of a chat
// @Description Returns the last limit messages of the chat in chronological
// @Description order. Non-positive or missing limits use the configured default
// @Description window; limits above the configured maximum are clamped. When
// @Description before is given, only messages strictly older than that instant
// @Description are considered.
// @Tags        Messages
// @Produce     json
//
// @Param       id      path   integer  true   "Telegram chat ID (negative for groups)"  example(-1001234567890)
// @Param       limit   query  int      false  "Window size (0 = default window)"        minimum(0)
// @Param       before  query  string   false  "Upper exclusive bound (RFC 3339)"        example(2025-06-01T12:00:00Z)
//
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	chatID, okID := chatIDParam(c)
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be an integer")
		return
	}

	before, okBefore := beforeParam(c)
	if !okBefore {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "before must be an RFC 3339 timestamp")
		return
	}

	limit := utils.AtoiDefault(c.Query("limit"), 0)

	items, err := h.msgSvc.Recent(ctx, chatID, limit, before)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		ChatID:   chatID,
		Count:    len(items),
		Messages: items,
	})
}
