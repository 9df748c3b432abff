// Package bot – Capture
//
// This file maps inbound Telegram messages onto stored history rows. Every
// non-command message is kept, media-only ones included, so /stats reflects
// real chat activity. Chat service events (joins, leaves, renames, pins) are
// stored as system rows with a synthesized sentence; they count toward
// statistics but never reach a summary.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// capture persists one message. Duplicate deliveries are dropped by the
// store; failures are logged and never answered, capture stays silent.
func (b *Bot) capture(ctx context.Context, msg *tgbotapi.Message) {
	rec, ok := messageRecord(msg)
	if !ok {
		return
	}
	if _, err := b.Messages.Store(ctx, rec); err != nil {
		log.Error().
			Err(err).
			Int64("chat_id", rec.ChatID).
			Int64("message_id", rec.MessageID).
			Msg("bot: store message")
	}
}

// messageRecord maps a Telegram message onto the stored row. The second
// return is false for updates that carry nothing storable.
func messageRecord(msg *tgbotapi.Message) (*domain.Message, bool) {
	if msg == nil || msg.Chat == nil {
		return nil, false
	}

	rec := &domain.Message{
		ChatID:    msg.Chat.ID,
		MessageID: int64(msg.MessageID),
		Username:  authorName(msg.From),
		Timestamp: msg.Time().UTC(),
	}
	if msg.From != nil {
		id := msg.From.ID
		rec.UserID = &id
	}

	if text, ok := systemText(msg); ok {
		rec.IsSystem = true
		rec.Text = text
		return rec, true
	}

	rec.Text = msg.Text
	rec.Caption = msg.Caption
	rec.HasPhoto = len(msg.Photo) > 0
	rec.HasVideo = msg.Video != nil
	rec.HasDocument = msg.Document != nil
	return rec, true
}

// systemText renders chat service events as plain sentences, phrased the way
// the summarizer's system patterns expect. One event is one row even when
// several members join at once, because (chat, message) must stay unique.
func systemText(msg *tgbotapi.Message) (string, bool) {
	switch {
	case len(msg.NewChatMembers) > 0:
		names := make([]string, 0, len(msg.NewChatMembers))
		for i := range msg.NewChatMembers {
			names = append(names, authorName(&msg.NewChatMembers[i]))
		}
		return strings.Join(names, ", ") + " joined the group", true
	case msg.LeftChatMember != nil:
		return authorName(msg.LeftChatMember) + " left the group", true
	case msg.NewChatTitle != "":
		return "Group name changed to " + msg.NewChatTitle, true
	case len(msg.NewChatPhoto) > 0:
		return "Group photo updated", true
	case msg.PinnedMessage != nil:
		return authorName(msg.From) + " pinned a message", true
	}
	return "", false
}

// authorName picks the display name stored with a message: username first,
// then first name, then "Unknown".
func authorName(u *tgbotapi.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.UserName != "" {
		return u.UserName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Unknown"
}
