// Package services – PreferenceService
//
// This file implements PreferenceService, which stores per-user settings as
// key/value pairs. Today the only setting is the preferred summary style;
// reads fall back to the default style when nothing is stored or the stored
// value no longer parses, so callers never have to special-case first use.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/DeliriumPulse/Summary/internal/llm"
	"github.com/DeliriumPulse/Summary/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// prefKeySummaryStyle is the preference key holding a user's summary style.
const prefKeySummaryStyle = "summary_style"

// PreferenceService implements the use-cases around per-user preferences.
type PreferenceService struct {
	DB *gorm.DB

	// Default is the style served to users without a stored preference.
	// Zero value falls back to llm.DefaultStyle.
	Default llm.Style
}

// defaultStyle resolves the configured fallback style.
func (s *PreferenceService) defaultStyle() llm.Style {
	if s.Default.Valid() {
		return s.Default
	}
	return llm.DefaultStyle
}

// SummaryStyle returns the user's preferred summary style, or the default
// style when the user has never chosen one. A stored value that no longer
// names a supported style is treated as unset.
func (s *PreferenceService) SummaryStyle(ctx context.Context, userID int64) (llm.Style, error) {
	tr := otel.Tracer("services/PreferenceService")
	ctx, span := tr.Start(ctx, "SummaryStyle",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	raw, err := repo.GetPreference(ctx, s.DB, userID, prefKeySummaryStyle)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.defaultStyle(), nil
		}
		return s.defaultStyle(), err
	}

	style, ok := llm.ParseStyle(raw)
	if !ok {
		return s.defaultStyle(), nil
	}
	return style, nil
}

// SetSummaryStyle validates and saves the user's preferred summary style,
// returning the canonical form that was stored. Free-form input is accepted
// ("funny", "EXECUTIVE summary"); input naming no supported style yields
// ErrUnknownStyle and leaves the stored preference untouched.
func (s *PreferenceService) SetSummaryStyle(ctx context.Context, userID int64, raw string) (llm.Style, error) {
	tr := otel.Tracer("services/PreferenceService")
	ctx, span := tr.Start(ctx, "SetSummaryStyle",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("style.raw", raw),
		),
	)
	defer span.End()

	style, ok := llm.ParseStyle(raw)
	if !ok {
		return s.defaultStyle(), ErrUnknownStyle
	}
	if err := repo.UpsertPreference(ctx, s.DB, userID, prefKeySummaryStyle, style.String()); err != nil {
		return s.defaultStyle(), err
	}
	return style, nil
}
