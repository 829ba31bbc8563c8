package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func deleteByID(ctx context.Context, db *gorm.DB, value interface{}, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(value, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
