// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the retention delete used by the
// background sweeper.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// PurgeMessagesBefore deletes every message whose capture timestamp is
// strictly older than cutoff, across all chats, and returns the number of
// rows removed.
//
// The delete is a single timestamp-scoped statement, so it is atomic with
// respect to concurrent inserts and reads: a row at or after the cutoff is
// never touched, and a concurrently inserted old-dated row is either caught
// by this cycle or the next one.
func PurgeMessagesBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&domain.Message{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
