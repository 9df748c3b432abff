// Package bot – Style picker
//
// This file implements /settings and its inline keyboard. Button payloads
// carry a stable uppercase token per style (e.g. "style_EXECUTIVE") so
// renaming a display name never breaks buttons already on screen.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/DeliriumPulse/Summary/internal/llm"
)

const styleCallbackPrefix = "style_"

// styleButtons defines the picker in display order: label shown on the
// button and the callback token appended to styleCallbackPrefix.
var styleButtons = []struct {
	style llm.Style
	label string
	token string
}{
	{llm.StyleProfessional, "👔 Professional", "PROFESSIONAL"},
	{llm.StyleFunny, "😄 Funny", "FUNNY"},
	{llm.StyleExecutive, "📈 Executive", "EXECUTIVE"},
	{llm.StyleTechnical, "🔧 Technical", "TECHNICAL"},
	{llm.StyleCasual, "💬 Casual", "CASUAL"},
}

// settingsKeyboard builds the style picker, two buttons per row.
func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, sb := range styleButtons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(sb.label, styleCallbackPrefix+sb.token))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// callbackStyle parses a style picker payload back to its style.
func callbackStyle(data string) (llm.Style, bool) {
	if !strings.HasPrefix(data, styleCallbackPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(data, styleCallbackPrefix)
	for _, sb := range styleButtons {
		if sb.token == token {
			return sb.style, true
		}
	}
	return "", false
}

func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	var uid int64
	if msg.From != nil {
		uid = msg.From.ID
	}
	current, err := b.Prefs.SummaryStyle(ctx, uid)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", uid).Msg("bot: load style preference")
	}

	m := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"⚙️ <b>Settings</b>\n\nCurrent style: <b>%s</b>\n\nChoose your preferred summary style:", current))
	m.ParseMode = tgbotapi.ModeHTML
	m.ReplyMarkup = settingsKeyboard()
	if _, err := b.API.Send(m); err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("bot: send settings")
	}
}

// handleCallback saves the style chosen on the picker and rewrites the
// settings message with a confirmation. The callback is acknowledged first
// so the client drops its loading spinner even when the save fails.
func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.API.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Warn().Err(err).Msg("bot: answer callback")
	}

	style, ok := callbackStyle(q.Data)
	if !ok || q.From == nil || q.Message == nil {
		return
	}

	saved, err := b.Prefs.SetSummaryStyle(ctx, q.From.ID, string(style))
	if err != nil {
		log.Error().Err(err).Int64("user_id", q.From.ID).Msg("bot: save style preference")
		b.edit(q.Message.Chat.ID, q.Message.MessageID, textPrefFailed)
		return
	}
	b.editHTML(q.Message.Chat.ID, q.Message.MessageID, styleUpdatedText(saved))
}
