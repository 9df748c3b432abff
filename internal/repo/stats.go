// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate statistics query for a
// chat's message history. The result is computed on demand and never cached,
// so it reflects the log at call time.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// ChatStats is a derived, non-persisted view over one chat's messages.
//
// Fields:
//   - TotalMessages: number of stored rows for the chat.
//   - UniqueUsers: distinct non-null author identifiers.
//   - FirstMessage / LastMessage: oldest and newest capture timestamps,
//     nil when the chat has no messages.
type ChatStats struct {
	TotalMessages int64      `json:"total_messages"`
	UniqueUsers   int64      `json:"unique_users"`
	FirstMessage  *time.Time `json:"first_message,omitempty"`
	LastMessage   *time.Time `json:"last_message,omitempty"`
}

// ChatStatistics computes ChatStats for chatID. An empty chat yields a
// zeroed result with a nil error; only I/O faults produce an error.
func ChatStatistics(ctx context.Context, db *gorm.DB, chatID int64) (ChatStats, error) {
	var s ChatStats

	q := db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID)
	if err := q.Count(&s.TotalMessages).Error; err != nil {
		return ChatStats{}, err
	}
	if s.TotalMessages == 0 {
		return s, nil
	}

	if err := db.WithContext(ctx).
		Raw("SELECT COUNT(DISTINCT user_id) FROM messages WHERE chat_id = ? AND user_id IS NOT NULL", chatID).
		Scan(&s.UniqueUsers).Error; err != nil {
		return ChatStats{}, err
	}

	// Bounds via ordered single-row scans (avoid MIN()/MAX() -> TEXT in
	// SQLite). Each scan gets its own chain: ORDER BY clauses accumulate on
	// a reused one, and "timestamp ASC, timestamp DESC" would hand back the
	// oldest row for both bounds.
	bound := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID)
	}
	var row struct {
		Timestamp time.Time
	}
	if err := bound().Select("timestamp").Order("timestamp ASC").Limit(1).Scan(&row).Error; err != nil {
		return ChatStats{}, err
	}
	first := row.Timestamp
	s.FirstMessage = &first

	if err := bound().Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return ChatStats{}, err
	}
	last := row.Timestamp
	s.LastMessage = &last

	return s, nil
}
