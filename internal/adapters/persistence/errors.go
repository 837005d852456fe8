package persistence

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

// mapNotFound converts gorm.ErrRecordNotFound into a domain not-found error.
func mapNotFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(entity, id)
	}

	return err
}

// mapNotFoundBy is mapNotFound for lookups by a key other than id.
func mapNotFoundBy(err error, entity, key, value string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundByError(entity, key, value)
	}

	return err
}

// mapWriteError converts unique violations into a domain conflict. It relies
// on gorm.Config.TranslateError being set.
func mapWriteError(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewConflictError(entity, "duplicate key")
	}

	return err
}

// versionMismatch resolves a zero-row versioned update: not found when the
// row is gone, conflict otherwise.
func versionMismatch(tx *gorm.DB, model any, entity string, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return domain.NewNotFoundError(entity, id.String())
	}

	return domain.NewConflictError(entity, "modified by another transaction")
}
