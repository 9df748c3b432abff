// Package bot – Commands
//
// This file implements the slash-command surface. /summary drives the full
// pipeline (throttle, window, clean, generate) through a status message that
// is edited in place as work progresses; the remaining commands are simple
// request/reply exchanges. Unknown commands are ignored.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/DeliriumPulse/Summary/internal/llm"
	"github.com/DeliriumPulse/Summary/internal/repo"
	"github.com/DeliriumPulse/Summary/internal/services"
)

const (
	textInvalidNumber = "⚠️ Please provide a valid number."
	textNotPositive   = "⚠️ Please specify a positive number of messages."
	textNoMessages    = "📭 No messages found to summarize. I only started logging messages after being added to this chat."
	textNoMeaningful  = "📭 No meaningful messages found to summarize (only system messages or media)."
	textGenerating    = "✨ Generating summary..."
	textThrottled     = "⏳ Too many summary requests in this chat. Please try again in a minute."
	textNoStats       = "📭 No statistics available yet. I'll start collecting data from messages sent after I was added to this chat."
	textStatsFailed   = "❌ Failed to load chat statistics. Please try again."
	textPrefFailed    = "❌ Failed to save your preference. Please try again."
)

const statsTimeLayout = "2006-01-02 15:04"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.replyHTML(msg.Chat.ID, b.welcomeText())
	case "help":
		b.replyHTML(msg.Chat.ID, b.helpText())
	case "summary":
		b.handleSummary(ctx, msg)
	case "style":
		b.handleStyle(ctx, msg)
	case "settings":
		b.handleSettings(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	}
}

// handleSummary runs the summarization pipeline for one request. The status
// message is posted immediately and edited through the analysis and
// generation phases so the chat sees progress instead of silence.
func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if b.Throttle != nil && !b.Throttle.Allow(chatID) {
		b.reply(chatID, textThrottled)
		return
	}

	count := b.DefaultWindow
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil {
			b.reply(chatID, textInvalidNumber)
			return
		}
		if n < 1 {
			b.reply(chatID, textNotPositive)
			return
		}
		if n > b.MaxWindow {
			b.reply(chatID, fmt.Sprintf("⚠️ Maximum %d messages allowed. Using %d instead.", b.MaxWindow, b.MaxWindow))
			n = b.MaxWindow
		}
		count = n
	}

	status, ok := b.reply(chatID, fmt.Sprintf("🤔 Analyzing last %d messages...", count))
	if !ok {
		return
	}

	messages, err := b.Messages.Recent(ctx, chatID, count, nil)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("bot: load recent messages")
		b.edit(chatID, status.MessageID, summaryFailedText(err))
		return
	}
	if len(messages) == 0 {
		b.edit(chatID, status.MessageID, textNoMessages)
		return
	}
	if len(b.Summaries.Clean(messages)) == 0 {
		b.edit(chatID, status.MessageID, textNoMeaningful)
		return
	}

	b.edit(chatID, status.MessageID, textGenerating)

	style := b.userStyle(ctx, msg.From)
	summary := b.Summaries.Summarize(ctx, messages, style)

	final := fmt.Sprintf("📊 Summary of last %d messages (%s style)\n\n%s", len(messages), style, summary)
	b.editHTML(chatID, status.MessageID, final)
}

// handleStyle sets the sender's summary style by name, the keyboard-free
// alternative to /settings.
func (b *Bot) handleStyle(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg.Chat.ID, styleUsageText())
		return
	}
	if msg.From == nil {
		return
	}

	saved, err := b.Prefs.SetSummaryStyle(ctx, msg.From.ID, arg)
	if err != nil {
		if errors.Is(err, services.ErrUnknownStyle) {
			b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Unknown style %q. %s", arg, styleListText()))
			return
		}
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("bot: save style preference")
		b.reply(msg.Chat.ID, textPrefFailed)
		return
	}
	b.replyHTML(msg.Chat.ID, styleUpdatedText(saved))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	st, err := b.Messages.Statistics(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("bot: chat statistics")
		b.reply(chatID, textStatsFailed)
		return
	}
	if st.TotalMessages == 0 {
		b.reply(chatID, textNoStats)
		return
	}
	b.replyHTML(chatID, b.statsText(st))
}

// userStyle resolves the sender's preferred style; lookup faults fall back
// to the default so a summary is never blocked on the preferences table.
func (b *Bot) userStyle(ctx context.Context, from *tgbotapi.User) llm.Style {
	var uid int64
	if from != nil {
		uid = from.ID
	}
	style, err := b.Prefs.SummaryStyle(ctx, uid)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", uid).Msg("bot: load style preference")
	}
	return style
}

func (b *Bot) welcomeText() string {
	return fmt.Sprintf("👋 Welcome to <b>Chat Summarizer Bot</b>!\n\n"+
		"I can summarize your chat history in different styles.\n\n"+
		"<b>Commands:</b>\n"+
		"• /summary [n] - Summarize last n messages (default: %d)\n"+
		"• /settings - Change summary style\n"+
		"• /stats - View chat statistics\n"+
		"• /help - Show this help message\n\n"+
		"I'll automatically save messages for future summarization. "+
		"Just add me to a group and use /summary when you need a quick recap!", b.DefaultWindow)
}

func (b *Bot) helpText() string {
	return fmt.Sprintf("<b>Chat Summarizer Bot - Help</b>\n\n"+
		"<b>Commands:</b>\n"+
		"• /summary - Summarize last %d messages\n"+
		"• /summary 50 - Summarize last 50 messages\n"+
		"• /settings - Choose summary style:\n"+
		"  - Professional: Clear and formal\n"+
		"  - Funny: Humorous with emojis\n"+
		"  - Executive: Brief, key points only\n"+
		"  - Technical: Focus on technical details\n"+
		"  - Casual: Friendly and conversational\n"+
		"• /stats - View chat statistics\n\n"+
		"<b>How it works:</b>\n"+
		"I automatically save messages from your chats. When you use /summary, "+
		"I analyze recent messages and create a concise summary based on your selected style.\n\n"+
		"<b>Privacy:</b>\n%s", b.DefaultWindow, b.helpRetention())
}

func (b *Bot) helpRetention() string {
	if b.RetentionDays > 0 {
		return fmt.Sprintf("Messages are stored for %d days, then automatically deleted.", b.RetentionDays)
	}
	return "Messages are stored indefinitely."
}

func (b *Bot) statsText(st repo.ChatStats) string {
	first, last := "-", "-"
	if st.FirstMessage != nil {
		first = st.FirstMessage.UTC().Format(statsTimeLayout)
	}
	if st.LastMessage != nil {
		last = st.LastMessage.UTC().Format(statsTimeLayout)
	}
	return fmt.Sprintf("📊 <b>Chat Statistics</b>\n\n"+
		"• Total messages: <b>%d</b>\n"+
		"• Unique users: <b>%d</b>\n"+
		"• First message: %s\n"+
		"• Latest message: %s\n\n%s",
		st.TotalMessages, st.UniqueUsers, first, last, b.statsRetention())
}

func (b *Bot) statsRetention() string {
	if b.RetentionDays > 0 {
		return fmt.Sprintf("Messages are retained for %d days.", b.RetentionDays)
	}
	return "Messages are retained indefinitely."
}

func summaryFailedText(err error) string {
	return fmt.Sprintf("❌ Error generating summary: %v\n\nPlease try again or contact support.", err)
}

func styleUpdatedText(style llm.Style) string {
	return fmt.Sprintf("✅ Summary style updated to: <b>%s</b>\n\n"+
		"Your preference has been saved and will persist across bot restarts!\n\n"+
		"Use /summary to generate a summary in this style!", style)
}

func styleUsageText() string {
	return "⚙️ Usage: /style <name>\n" + styleListText()
}

func styleListText() string {
	styles := llm.AllStyles()
	names := make([]string, 0, len(styles))
	for _, s := range styles {
		names = append(names, s.String())
	}
	return "Available styles: " + strings.Join(names, ", ")
}
