// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model: idempotent inserts, windowed retrieval, and counting.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// InsertMessage stores one captured message. The (chat_id, message_id) pair
// is unique; redelivery of an already-stored message is a no-op. The first
// return value reports whether a new row was written.
//
// Duplicates are absorbed by ON CONFLICT DO NOTHING, so they never surface
// as errors. The unique-violation string check remains as a fallback for
// drivers that report the conflict anyway.
func InsertMessage(ctx context.Context, db *gorm.DB, m *domain.Message) (bool, error) {
	if m.Username == "" {
		m.Username = "Unknown"
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecentMessages returns the most recent messages for a chat, oldest first,
// at most limit rows. When before is non-nil, only rows with a timestamp
// strictly older than it are considered.
//
// Selection happens newest-first (timestamp DESC, id DESC so equal
// timestamps have a stable order) and the slice is reversed before
// returning, matching the order a prompt wants the conversation in.
func RecentMessages(ctx context.Context, db *gorm.DB, chatID int64, limit int, before *time.Time) ([]domain.Message, error) {
	q := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp DESC, id DESC")
	if before != nil {
		q = q.Where("timestamp < ?", *before)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.Message
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, chatID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).
		Scan(&total).Error
	return total, err
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The pure-Go driver returns these as plain text errors, so the
// check is on the message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
