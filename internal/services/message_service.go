// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the message log: idempotent capture, windowed retrieval for
// summarization, per-chat statistics, and retention purges. It clamps caller
// supplied window sizes to configured bounds so the rest of the system never
// sees an unbounded query.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include chat identifiers and window parameters where applicable.

package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DeliriumPulse/Summary/internal/domain"
	"github.com/DeliriumPulse/Summary/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// fallbackDefaultWindow is used when DefaultWindow is unset.
	fallbackDefaultWindow = 20
	// fallbackMaxWindow is used when MaxWindow is unset.
	fallbackMaxWindow = 100
)

// MessageService coordinates the durable message log.
type MessageService struct {
	DB *gorm.DB

	// DefaultWindow is the window size used when a caller passes limit <= 0.
	DefaultWindow int
	// MaxWindow caps any requested window size.
	MaxWindow int
}

// Store persists a captured message. Duplicate deliveries of the same
// (chat, message) pair are dropped without error; the return value reports
// whether a new row was written.
func (s *MessageService) Store(ctx context.Context, m *domain.Message) (bool, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Store",
		trace.WithAttributes(
			attribute.Int64("chat.id", m.ChatID),
			attribute.Int64("message.id", m.MessageID),
		),
	)
	defer span.End()

	stored, err := repo.InsertMessage(ctx, s.DB, m)
	if err != nil {
		return false, err
	}
	if stored {
		messagesStored.WithLabelValues("stored").Inc()
	} else {
		messagesStored.WithLabelValues("duplicate").Inc()
	}
	return stored, nil
}

// Recent returns the last limit messages of a chat in chronological order.
// limit <= 0 uses the configured default window; limits above the configured
// maximum are clamped. A non-nil before restricts the window to messages
// strictly older than that instant.
func (s *MessageService) Recent(ctx context.Context, chatID int64, limit int, before *time.Time) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Recent",
		trace.WithAttributes(
			attribute.Int64("chat.id", chatID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	return repo.RecentMessages(ctx, s.DB, chatID, s.ClampWindow(limit), before)
}

// Statistics returns message count, distinct author count, and the first/last
// message timestamps for a chat. A chat with no messages yields zero values.
func (s *MessageService) Statistics(ctx context.Context, chatID int64) (repo.ChatStats, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Statistics",
		trace.WithAttributes(attribute.Int64("chat.id", chatID)),
	)
	defer span.End()

	return repo.ChatStatistics(ctx, s.DB, chatID)
}

// Purge removes all messages older than retentionDays across every chat and
// returns the number of rows deleted. retentionDays <= 0 means retain forever
// and is a no-op.
func (s *MessageService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Purge",
		trace.WithAttributes(attribute.Int("retention.days", retentionDays)),
	)
	defer span.End()

	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	n, err := repo.PurgeMessagesBefore(ctx, s.DB, cutoff)
	if err != nil {
		return 0, err
	}
	messagesPurged.Add(float64(n))
	return n, nil
}

// ClampWindow normalizes a requested window size: non-positive values fall
// back to the default window, values above the maximum are clamped to it.
func (s *MessageService) ClampWindow(limit int) int {
	def := s.DefaultWindow
	if def <= 0 {
		def = fallbackDefaultWindow
	}
	max := s.MaxWindow
	if max <= 0 {
		max = fallbackMaxWindow
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}
