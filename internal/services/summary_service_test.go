package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DeliriumPulse/Summary/internal/domain"
	"github.com/DeliriumPulse/Summary/internal/llm"
)

// ----- Fake provider -----

type fakeProvider struct {
	calls    int
	gotLines []string
	gotStyle llm.Style

	reply string
	err   error
}

func (f *fakeProvider) Summarize(ctx context.Context, lines []string, style llm.Style) (string, error) {
	f.calls++
	f.gotLines = append([]string(nil), lines...)
	f.gotStyle = style
	return f.reply, f.err
}

func (f *fakeProvider) ValidateCredential(ctx context.Context) bool { return true }

func (f *fakeProvider) Name() string { return "fake" }

// ----- Construction -----

func TestNewSummaryService_NilProvider(t *testing.T) {
	if _, err := NewSummaryService(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestNewSummaryService_ReportsBackend(t *testing.T) {
	svc, err := NewSummaryService(&fakeProvider{})
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}
	if svc.Backend() != "fake" {
		t.Fatalf("Backend() = %q", svc.Backend())
	}
}

// ----- Summarize -----

func TestSummaryService_Summarize_EmptyWindowSkipsBackend(t *testing.T) {
	fp := &fakeProvider{reply: "should never appear"}
	svc, err := NewSummaryService(fp)
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	// No messages at all.
	got := svc.Summarize(context.Background(), nil, llm.StyleProfessional)
	if got != emptySummaryText {
		t.Fatalf("summary = %q, want %q", got, emptySummaryText)
	}

	// Messages that normalize to nothing: a system record and a URL-only body.
	msgs := []domain.Message{
		{Username: "svc", Text: "bob joined the group", IsSystem: true},
		{Username: "alice", Text: "https://example.com/a"},
	}
	got = svc.Summarize(context.Background(), msgs, llm.StyleProfessional)
	if got != emptySummaryText {
		t.Fatalf("summary = %q, want %q", got, emptySummaryText)
	}

	if fp.calls != 0 {
		t.Fatalf("backend called %d times for empty windows", fp.calls)
	}
}

func TestSummaryService_Summarize_ForwardsCleanedLinesAndStyle(t *testing.T) {
	fp := &fakeProvider{reply: "<b>Summary</b>: polite greetings"}
	svc, err := NewSummaryService(fp)
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	msgs := []domain.Message{
		{Username: "svc", Text: "carol was added", IsSystem: true},
		{Username: "alice", Text: "hello everyone"},
		{Username: "bob", Text: "/summary ignore this prefix"},
		{Username: "carol", HasPhoto: true, Caption: "sunset"},
	}

	got := svc.Summarize(context.Background(), msgs, llm.StyleFunny)
	if got != fp.reply {
		t.Fatalf("summary = %q, want backend reply", got)
	}
	if fp.calls != 1 {
		t.Fatalf("backend called %d times, want 1", fp.calls)
	}
	if fp.gotStyle != llm.StyleFunny {
		t.Fatalf("style forwarded = %q, want %q", fp.gotStyle, llm.StyleFunny)
	}

	want := []string{
		"alice: hello everyone",
		"bob: ignore this prefix",
		"carol: [Photo] - sunset",
	}
	if len(fp.gotLines) != len(want) {
		t.Fatalf("lines = %q, want %q", fp.gotLines, want)
	}
	for i := range want {
		if fp.gotLines[i] != want[i] {
			t.Fatalf("line[%d] = %q, want %q", i, fp.gotLines[i], want[i])
		}
	}
}

func TestSummaryService_Summarize_BackendErrorFoldedIntoText(t *testing.T) {
	fp := &fakeProvider{err: errors.New("upstream exploded")}
	svc, err := NewSummaryService(fp)
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	msgs := []domain.Message{{Username: "alice", Text: "hello"}}
	got := svc.Summarize(context.Background(), msgs, llm.StyleProfessional)
	if got != summaryErrorPrefix+"upstream exploded" {
		t.Fatalf("summary = %q", got)
	}
}

// ----- Clean -----

func TestSummaryService_Clean_AttachmentPrecedence(t *testing.T) {
	svc, err := NewSummaryService(&fakeProvider{})
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	// A message carrying several media flags renders as its highest-precedence
	// attachment: photo over video over document.
	msgs := []domain.Message{
		{Username: "a", HasPhoto: true, HasVideo: true, HasDocument: true, Caption: "cap"},
		{Username: "b", HasVideo: true, HasDocument: true},
		{Username: "c", HasDocument: true},
	}
	got := svc.Clean(msgs)
	want := []string{
		"a: [Photo] - cap",
		"b: [Video]",
		"c: [Document: file]",
	}
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSummaryService_Clean_TextWinsOverFlags(t *testing.T) {
	svc, err := NewSummaryService(&fakeProvider{})
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	got := svc.Clean([]domain.Message{
		{Username: "a", Text: "look at this", HasPhoto: true, Caption: "pic"},
	})
	if len(got) != 1 || got[0] != "a: look at this" {
		t.Fatalf("lines = %q", got)
	}
}

// ----- Log + normalizer + stats working together -----

func TestSummaryPipeline_WindowCleanAndStats(t *testing.T) {
	db := newSvcDB(t, &domain.Message{})
	msgSvc := &MessageService{DB: db, DefaultWindow: 20, MaxWindow: 100}

	fp := &fakeProvider{reply: "done"}
	sumSvc, err := NewSummaryService(fp)
	if err != nil {
		t.Fatalf("NewSummaryService: %v", err)
	}

	// 20 messages from two authors, two of them system records.
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	aliceID, bobID := int64(1), int64(2)
	for i := 1; i <= 20; i++ {
		m := domain.Message{
			ChatID:    77,
			MessageID: int64(i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		switch {
		case i == 5 || i == 15:
			m.UserID = &aliceID
			m.Username = "alice"
			m.Text = "dave joined the group"
			m.IsSystem = true
		case i%2 == 0:
			m.UserID = &aliceID
			m.Username = "alice"
			m.Text = fmt.Sprintf("alice says %d", i)
		default:
			m.UserID = &bobID
			m.Username = "bob"
			m.Text = fmt.Sprintf("bob says %d", i)
		}
		stored, err := msgSvc.Store(context.Background(), &m)
		if err != nil || !stored {
			t.Fatalf("store %d: stored=%v err=%v", i, stored, err)
		}
	}

	window, err := msgSvc.Recent(context.Background(), 77, 20, nil)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(window) != 20 {
		t.Fatalf("window = %d messages, want 20", len(window))
	}

	lines := sumSvc.Clean(window)
	if len(lines) != 18 {
		t.Fatalf("cleaned lines = %d, want 18 (two system records dropped)", len(lines))
	}
	for _, ln := range lines {
		if strings.Contains(ln, "joined the group") {
			t.Fatalf("system record leaked into lines: %q", ln)
		}
	}

	if got := sumSvc.Summarize(context.Background(), window, llm.StyleCasual); got != "done" {
		t.Fatalf("summary = %q", got)
	}
	if len(fp.gotLines) != 18 {
		t.Fatalf("backend received %d lines, want 18", len(fp.gotLines))
	}

	stats, err := msgSvc.Statistics(context.Background(), 77)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalMessages != 20 {
		t.Fatalf("total = %d, want 20 (system rows counted)", stats.TotalMessages)
	}
	if stats.UniqueUsers != 2 {
		t.Fatalf("unique users = %d, want 2", stats.UniqueUsers)
	}
	if stats.FirstMessage == nil || stats.LastMessage == nil {
		t.Fatal("first/last timestamps missing")
	}
	if !stats.FirstMessage.Equal(base.Add(1 * time.Minute)) {
		t.Fatalf("first = %v", stats.FirstMessage)
	}
	if !stats.LastMessage.Equal(base.Add(20 * time.Minute)) {
		t.Fatalf("last = %v", stats.LastMessage)
	}
}
