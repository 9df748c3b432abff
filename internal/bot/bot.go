// Package bot – Runtime
//
// This file wires the Telegram long-poll loop. Updates arrive over
// GetUpdatesChan and are dispatched to the command handlers, the style
// picker callback, or the capture path; everything else is dropped. The
// loop runs until its context is cancelled, at which point polling stops
// and Run returns.
package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/DeliriumPulse/Summary/internal/services"
)

// API is the slice of the Telegram client the bot depends on.
// *tgbotapi.BotAPI satisfies it; tests substitute a recorder.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot receives Telegram updates over long polling and serves the command
// surface: history capture plus /summary, /settings, /stats, /style and
// the help commands.
type Bot struct {
	API       API
	Messages  *services.MessageService
	Prefs     *services.PreferenceService
	Summaries *services.SummaryService

	// DefaultWindow and MaxWindow bound the /summary message count.
	DefaultWindow int
	MaxWindow     int

	// RetentionDays is surfaced in /help and /stats; 0 means forever.
	RetentionDays int

	// Throttle limits summary generation per chat. Nil disables limiting.
	Throttle *Throttle
}

// Run starts long polling and blocks until ctx is cancelled or the update
// channel closes. Edited messages are not requested, so history rows are
// immutable once captured.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.API.GetUpdatesChan(u)
	log.Info().Msg("bot: long polling started")

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			log.Info().Msg("bot: long polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("bot: update channel closed")
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate routes one update. A panicking handler is contained here so
// a single bad update cannot take down the poll loop.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("bot: update handler panicked")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.capture(ctx, msg)
}

// reply sends plain text and reports the sent message for follow-up edits.
func (b *Bot) reply(chatID int64, text string) (tgbotapi.Message, bool) {
	sent, err := b.API.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("bot: send message")
		return tgbotapi.Message{}, false
	}
	return sent, true
}

// replyHTML sends HTML-formatted text, falling back to plain text when
// Telegram rejects the markup.
func (b *Bot) replyHTML(chatID int64, text string) (tgbotapi.Message, bool) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	sent, err := b.API.Send(m)
	if err == nil {
		return sent, true
	}
	log.Warn().Err(err).Int64("chat_id", chatID).Msg("bot: html send rejected, retrying plain")
	return b.reply(chatID, text)
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.API.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("bot: edit message")
	}
}

// editHTML edits a sent message with HTML formatting, falling back to a
// plain-text edit when Telegram rejects the markup.
func (b *Bot) editHTML(chatID int64, messageID int, text string) {
	e := tgbotapi.NewEditMessageText(chatID, messageID, text)
	e.ParseMode = tgbotapi.ModeHTML
	if _, err := b.API.Send(e); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("bot: html edit rejected, retrying plain")
		b.edit(chatID, messageID, text)
	}
}
