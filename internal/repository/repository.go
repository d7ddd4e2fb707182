package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cafehub/internal/model"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

func translate(action string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s failed: %w", action, ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
