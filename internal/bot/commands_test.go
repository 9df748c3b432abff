package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/DeliriumPulse/Summary/internal/llm"
)

// ---------- /summary ----------

func TestHandleSummary_FullPipeline(t *testing.T) {
	provider := &fakeProvider{reply: "Everyone agreed on the release date."}
	b, api, _ := newTestBot(t, provider)
	seedChat(t, b, 7, "we ship tuesday", "works for me", "tuesday it is")

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	texts := api.sentTexts()
	if len(texts) != 3 {
		t.Fatalf("sent %d messages, want 3 (status, generating, final): %q", len(texts), texts)
	}
	if texts[0] != "🤔 Analyzing last 20 messages..." {
		t.Fatalf("status = %q", texts[0])
	}
	if texts[1] != textGenerating {
		t.Fatalf("progress = %q", texts[1])
	}
	if !strings.HasPrefix(texts[2], "📊 Summary of last 3 messages (Professional style)\n\n") {
		t.Fatalf("final = %q", texts[2])
	}
	if !strings.Contains(texts[2], "Everyone agreed on the release date.") {
		t.Fatalf("final lacks summary body: %q", texts[2])
	}

	// Edits target the status message, and the final one is HTML.
	final, ok := api.lastSent(t).(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("final send is %T, want EditMessageTextConfig", api.lastSent(t))
	}
	if final.ChatID != 7 || final.MessageID != 1 {
		t.Fatalf("final edit targets chat %d message %d", final.ChatID, final.MessageID)
	}
	if final.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("final parse mode = %q", final.ParseMode)
	}

	if provider.callCount() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.callCount())
	}
	if len(provider.gotLines) != 3 || provider.gotLines[0] != "user1: we ship tuesday" {
		t.Fatalf("provider lines = %q", provider.gotLines)
	}
	if provider.gotStyle != llm.StyleProfessional {
		t.Fatalf("provider style = %q", provider.gotStyle)
	}
}

func TestHandleSummary_ArgValidation(t *testing.T) {
	cases := []struct {
		name string
		arg  string
		want string
	}{
		{"not a number", "/summary abc", textInvalidNumber},
		{"zero", "/summary 0", textNotPositive},
		{"negative", "/summary -3", textNotPositive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &fakeProvider{reply: "x"}
			b, api, _ := newTestBot(t, provider)
			seedChat(t, b, 7, "hello")

			b.handleMessage(context.Background(), commandMsg(7, 42, tc.arg))

			texts := api.sentTexts()
			if len(texts) != 1 || texts[0] != tc.want {
				t.Fatalf("sent = %q, want single %q", texts, tc.want)
			}
			if provider.callCount() != 0 {
				t.Fatalf("provider was called for a rejected argument")
			}
		})
	}
}

func TestHandleSummary_ClampsToMax(t *testing.T) {
	b, api, _ := newTestBot(t, nil)
	seedChat(t, b, 7, "hello", "world")

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary 500"))

	texts := api.sentTexts()
	if len(texts) < 2 {
		t.Fatalf("sent = %q", texts)
	}
	if texts[0] != "⚠️ Maximum 100 messages allowed. Using 100 instead." {
		t.Fatalf("clamp notice = %q", texts[0])
	}
	if texts[1] != "🤔 Analyzing last 100 messages..." {
		t.Fatalf("status = %q", texts[1])
	}
}

func TestHandleSummary_EmptyChat(t *testing.T) {
	provider := &fakeProvider{reply: "x"}
	b, api, _ := newTestBot(t, provider)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	texts := api.sentTexts()
	if len(texts) != 2 || texts[1] != textNoMessages {
		t.Fatalf("sent = %q, want status then %q", texts, textNoMessages)
	}
	if provider.callCount() != 0 {
		t.Fatalf("provider was called for an empty chat")
	}
}

func TestHandleSummary_OnlyNoise(t *testing.T) {
	provider := &fakeProvider{reply: "x"}
	b, api, db := newTestBot(t, provider)

	// A join event and a bare link: stored, but nothing to summarize.
	b.handleMessage(context.Background(), &tgbotapi.Message{
		MessageID:      1,
		Chat:           &tgbotapi.Chat{ID: 7},
		From:           &tgbotapi.User{ID: 1, UserName: "bob"},
		NewChatMembers: []tgbotapi.User{{ID: 2, UserName: "carol"}},
	})
	b.handleMessage(context.Background(), textMsg(7, 2, "bob", "https://example.com/x"))
	if n := messageCount(t, db, 7); n != 2 {
		t.Fatalf("stored %d rows, want 2", n)
	}

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	texts := api.sentTexts()
	if texts[len(texts)-1] != textNoMeaningful {
		t.Fatalf("final = %q, want %q", texts[len(texts)-1], textNoMeaningful)
	}
	if provider.callCount() != 0 {
		t.Fatalf("provider was called for noise-only history")
	}
}

func TestHandleSummary_UsesStoredStyle(t *testing.T) {
	provider := &fakeProvider{reply: "lol"}
	b, api, _ := newTestBot(t, provider)
	seedChat(t, b, 7, "hello")

	if _, err := b.Prefs.SetSummaryStyle(context.Background(), 42, "funny"); err != nil {
		t.Fatalf("SetSummaryStyle: %v", err)
	}

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	if provider.gotStyle != llm.StyleFunny {
		t.Fatalf("provider style = %q, want %q", provider.gotStyle, llm.StyleFunny)
	}
	final := api.sentTexts()[len(api.sentTexts())-1]
	if !strings.Contains(final, "(Funny style)") {
		t.Fatalf("final = %q", final)
	}
}

func TestHandleSummary_BackendErrorShownInline(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream exploded")}
	b, api, _ := newTestBot(t, provider)
	seedChat(t, b, 7, "hello")

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	final := api.sentTexts()[len(api.sentTexts())-1]
	if !strings.Contains(final, "Error generating summary: upstream exploded") {
		t.Fatalf("final = %q", final)
	}
}

func TestHandleSummary_Throttled(t *testing.T) {
	provider := &fakeProvider{reply: "x"}
	b, api, _ := newTestBot(t, provider)
	b.Throttle = NewThrottle(3, 1)
	seedChat(t, b, 7, "hello")

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))
	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	texts := api.sentTexts()
	if texts[len(texts)-1] != textThrottled {
		t.Fatalf("second request = %q, want %q", texts[len(texts)-1], textThrottled)
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.callCount())
	}
}

func TestHandleSummary_HTMLRejectedFallsBackToPlain(t *testing.T) {
	b, api, _ := newTestBot(t, nil)
	seedChat(t, b, 7, "hello")
	api.rejectHTML = true

	b.handleMessage(context.Background(), commandMsg(7, 42, "/summary"))

	final, ok := api.lastSent(t).(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("final send is %T, want EditMessageTextConfig", api.lastSent(t))
	}
	if final.ParseMode != "" {
		t.Fatalf("fallback edit still carries parse mode %q", final.ParseMode)
	}
	if !strings.HasPrefix(final.Text, "📊 Summary of last 1 messages") {
		t.Fatalf("fallback text = %q", final.Text)
	}
}

// ---------- /start, /help ----------

func TestHandleStart_Welcome(t *testing.T) {
	b, api, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/start"))

	sent, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("send is %T, want MessageConfig", api.lastSent(t))
	}
	if sent.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("parse mode = %q", sent.ParseMode)
	}
	for _, want := range []string{
		"👋 Welcome to <b>Chat Summarizer Bot</b>!",
		"• /summary [n] - Summarize last n messages (default: 20)",
		"• /settings - Change summary style",
	} {
		if !strings.Contains(sent.Text, want) {
			t.Fatalf("welcome lacks %q:\n%s", want, sent.Text)
		}
	}
}

func TestHandleHelp_ListsStylesAndRetention(t *testing.T) {
	b, api, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/help"))

	text := api.sentTexts()[0]
	for _, want := range []string{
		"<b>Chat Summarizer Bot - Help</b>",
		"• /summary - Summarize last 20 messages",
		"- Funny: Humorous with emojis",
		"Messages are stored for 30 days, then automatically deleted.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("help lacks %q:\n%s", want, text)
		}
	}
}

func TestHandleHelp_RetentionDisabled(t *testing.T) {
	b, api, _ := newTestBot(t, nil)
	b.RetentionDays = 0

	b.handleMessage(context.Background(), commandMsg(7, 42, "/help"))

	if !strings.Contains(api.sentTexts()[0], "Messages are stored indefinitely.") {
		t.Fatalf("help = %q", api.sentTexts()[0])
	}
}

// ---------- /style ----------

func TestHandleStyle_SetsByName(t *testing.T) {
	b, api, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/style executive summary"))

	got, err := b.Prefs.SummaryStyle(context.Background(), 42)
	if err != nil {
		t.Fatalf("SummaryStyle: %v", err)
	}
	if got != llm.StyleExecutive {
		t.Fatalf("stored style = %q, want %q", got, llm.StyleExecutive)
	}
	if !strings.Contains(api.sentTexts()[0], "✅ Summary style updated to: <b>Executive Summary</b>") {
		t.Fatalf("confirmation = %q", api.sentTexts()[0])
	}
}

func TestHandleStyle_UsageAndUnknown(t *testing.T) {
	b, api, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/style"))
	if got := api.sentTexts()[0]; !strings.Contains(got, "Usage: /style <name>") ||
		!strings.Contains(got, "Professional, Funny, Executive Summary, Technical, Casual") {
		t.Fatalf("usage = %q", got)
	}

	b.handleMessage(context.Background(), commandMsg(7, 42, "/style sassy"))
	if got := api.sentTexts()[1]; !strings.Contains(got, `Unknown style "sassy"`) {
		t.Fatalf("unknown = %q", got)
	}

	// Nothing was stored, lookups still serve the default.
	got, err := b.Prefs.SummaryStyle(context.Background(), 42)
	if err != nil {
		t.Fatalf("SummaryStyle: %v", err)
	}
	if got != llm.DefaultStyle {
		t.Fatalf("stored style = %q, want default", got)
	}
}

// ---------- /stats ----------

func TestHandleStats_EmptyChat(t *testing.T) {
	b, api, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/stats"))

	if got := api.sentTexts()[0]; got != textNoStats {
		t.Fatalf("stats = %q, want %q", got, textNoStats)
	}
}

func TestHandleStats_ReportsCountsAndRetention(t *testing.T) {
	b, api, _ := newTestBot(t, nil)
	seedChat(t, b, 7, "one", "two", "three")

	b.handleMessage(context.Background(), commandMsg(7, 42, "/stats"))

	sent, ok := api.lastSent(t).(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("send is %T, want MessageConfig", api.lastSent(t))
	}
	if sent.ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("parse mode = %q", sent.ParseMode)
	}
	for _, want := range []string{
		"📊 <b>Chat Statistics</b>",
		"• Total messages: <b>3</b>",
		"• Unique users: <b>2</b>",
		"Messages are retained for 30 days.",
	} {
		if !strings.Contains(sent.Text, want) {
			t.Fatalf("stats lacks %q:\n%s", want, sent.Text)
		}
	}
}

// ---------- dispatch ----------

func TestUnknownCommandIgnored(t *testing.T) {
	b, api, db := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(7, 42, "/frobnicate"))

	if len(api.sentTexts()) != 0 {
		t.Fatalf("unknown command answered: %q", api.sentTexts())
	}
	if n := messageCount(t, db, 7); n != 0 {
		t.Fatalf("unknown command was captured (%d rows)", n)
	}
}

func TestCommandWithBotMention(t *testing.T) {
	b, api, _ := newTestBot(t, nil)
	seedChat(t, b, 7, "hello")

	// "/summary@SummaryBot 1" must behave exactly like "/summary 1".
	msg := commandMsg(7, 42, "/summary@SummaryBot 1")
	b.handleMessage(context.Background(), msg)

	texts := api.sentTexts()
	if len(texts) == 0 || texts[0] != "🤔 Analyzing last 1 messages..." {
		t.Fatalf("sent = %q", texts)
	}
}
