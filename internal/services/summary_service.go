// Package services – SummaryService
//
// This file implements SummaryService, which turns a window of stored
// messages into a summary: it normalizes the window into prompt lines and
// dispatches them to the configured LLM backend. The contract is total — an
// empty window yields a fixed notice without touching the backend, and a
// backend fault is folded into the summary text itself, so callers always get
// something they can show to the chat.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/DeliriumPulse/Summary/internal/cleaner"
	"github.com/DeliriumPulse/Summary/internal/domain"
	"github.com/DeliriumPulse/Summary/internal/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// emptySummaryText is returned when a window normalizes to nothing.
	emptySummaryText = "No messages to summarize."
	// summaryErrorPrefix prefixes the backend error folded into summary text.
	summaryErrorPrefix = "Error generating summary: "
)

// SummaryService generates chat summaries from stored messages.
type SummaryService struct {
	provider llm.Provider
	cleaner  *cleaner.Cleaner
}

// NewSummaryService wires a summarizer to its backend. It validates the style
// instruction table up front so a template gap fails at startup rather than
// on the first summary request.
func NewSummaryService(p llm.Provider) (*SummaryService, error) {
	if p == nil {
		return nil, errors.New("services: summary provider is nil")
	}
	if err := llm.ValidateStyles(); err != nil {
		return nil, err
	}
	return &SummaryService{
		provider: p,
		cleaner:  cleaner.New(),
	}, nil
}

// Backend returns the selector of the configured backend, e.g. "gemini".
func (s *SummaryService) Backend() string {
	return s.provider.Name()
}

// Clean normalizes stored messages into prompt lines: system records are
// dropped, media-only messages become bracketed placeholders, URLs and
// leading bot commands are stripped, and every surviving line is prefixed
// with its author. Pure and deterministic.
func (s *SummaryService) Clean(messages []domain.Message) []string {
	records := make([]cleaner.Record, 0, len(messages))
	for _, m := range messages {
		records = append(records, recordFromMessage(m))
	}
	return s.cleaner.Clean(records)
}

// Summarize produces a summary of messages in the requested style. The result
// is always presentable text: an empty window yields a fixed notice without
// calling the backend, and a backend fault is rendered into the text instead
// of being propagated.
func (s *SummaryService) Summarize(ctx context.Context, messages []domain.Message, style llm.Style) string {
	tr := otel.Tracer("services/SummaryService")
	ctx, span := tr.Start(ctx, "Summarize",
		trace.WithAttributes(
			attribute.String("summary.style", style.String()),
			attribute.String("summary.backend", s.provider.Name()),
			attribute.Int("window.messages", len(messages)),
		),
	)
	defer span.End()

	lines := s.Clean(messages)
	if len(lines) == 0 {
		summariesTotal.WithLabelValues(s.provider.Name(), style.String(), outcomeEmpty).Inc()
		return emptySummaryText
	}

	start := time.Now()
	text, err := s.provider.Summarize(ctx, lines, style)
	summaryDuration.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		summariesTotal.WithLabelValues(s.provider.Name(), style.String(), outcomeError).Inc()
		return summaryErrorPrefix + err.Error()
	}

	summariesTotal.WithLabelValues(s.provider.Name(), style.String(), outcomeOK).Inc()
	return text
}

// recordFromMessage maps a stored message onto the normalizer's input shape.
// Exactly one attachment kind is derived from the persisted flags; photo wins
// over video over document when a message carries several.
func recordFromMessage(m domain.Message) cleaner.Record {
	r := cleaner.Record{
		Username: m.Username,
		Text:     m.Text,
		IsSystem: m.IsSystem,
		Detail:   m.Caption,
	}
	switch {
	case m.HasPhoto:
		r.Attachment = cleaner.AttachmentPhoto
	case m.HasVideo:
		r.Attachment = cleaner.AttachmentVideo
	case m.HasDocument:
		r.Attachment = cleaner.AttachmentDocument
	}
	return r
}
