// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Preference
// model.
//
// Error semantics:
//   - When a preference is not found, GetPreference returns
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetPreference fetches the stored value for (userID, key). If no row
// exists, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetPreference(ctx context.Context, db *gorm.DB, userID int64, key string) (string, error) {
	var p domain.Preference
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&p).Error
	if err != nil {
		return "", err
	}
	return p.Value, nil
}

// UpsertPreference writes value for (userID, key), overwriting any previous
// value (last-write-wins). The operation is idempotent.
func UpsertPreference(ctx context.Context, db *gorm.DB, userID int64, key, value string) error {
	p := &domain.Preference{UserID: userID, Key: key, Value: value}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(p).Error
}
