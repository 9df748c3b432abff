// Package domain defines the persistence models for captured chat messages
// and per-user preferences. These types are mapped with GORM and form the
// core data layer of the summarizer application.
package domain

import (
	"time"
)

// Message represents one inbound chat event exactly as captured from the
// transport. Rows are written once and never updated; retransmits of the
// same (chat, message) pair are dropped by the unique index, and rows only
// leave the table through the retention sweep.
//
// Fields:
//   - ID: surrogate auto-increment primary key.
//   - ChatID / MessageID: transport identifiers; unique together so a
//     duplicate delivery is a no-op.
//   - UserID: author identifier; nil for events without a human author.
//   - Username: author display name shown in summaries ("Unknown" when the
//     transport provides none).
//   - Text: message body; empty for media-only messages.
//   - Timestamp: capture time, drives window queries and retention.
//   - IsSystem: marks join/leave/metadata events excluded from summaries.
//   - HasPhoto / HasVideo / HasDocument: media presence flags.
//   - Caption: media caption, if any.
//   - CreatedAt: row insertion time managed by GORM.
type Message struct {
	ID          int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	ChatID      int64     `json:"chat_id"    gorm:"not null;uniqueIndex:ux_chat_message,priority:1;index:idx_chat_time,priority:1"`
	MessageID   int64     `json:"message_id" gorm:"not null;uniqueIndex:ux_chat_message,priority:2"`
	UserID      *int64    `json:"user_id,omitempty"`
	Username    string    `json:"username"   gorm:"type:varchar(128);not null;default:'Unknown'"`
	Text        string    `json:"text"       gorm:"type:text"`
	Timestamp   time.Time `json:"timestamp"  gorm:"not null;index:idx_chat_time,priority:2,sort:desc"`
	IsSystem    bool      `json:"is_system"    gorm:"not null;default:false"`
	HasPhoto    bool      `json:"has_photo"    gorm:"not null;default:false"`
	HasVideo    bool      `json:"has_video"    gorm:"not null;default:false"`
	HasDocument bool      `json:"has_document" gorm:"not null;default:false"`
	Caption     string    `json:"caption,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Preference stores one string setting for one user, e.g. the chosen summary
// style. Writes are last-write-wins upserts keyed by (user, key); rows never
// expire.
//
// Fields:
//   - ID: surrogate auto-increment primary key.
//   - UserID: owner of the setting; unique together with Key.
//   - Key: setting name, e.g. "summary_style".
//   - Value: opaque string value.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM; UpdatedAt reflects
//     the most recent overwrite.
type Preference struct {
	ID        int64     `json:"id"      gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:ux_pref_user_key,priority:1"`
	Key       string    `json:"key"     gorm:"type:varchar(64);not null;uniqueIndex:ux_pref_user_key,priority:2"`
	Value     string    `json:"value"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Preference.
func (Preference) TableName() string { return "preferences" }
