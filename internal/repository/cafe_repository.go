package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cafehub/internal/model"
)

type CafeRepository struct {
	db *gorm.DB
}

func NewCafeRepository(db *gorm.DB) *CafeRepository {
	return &CafeRepository{db: db}
}

func (r *CafeRepository) Create(ctx context.Context, cafe *model.Cafe) error {
	if err := r.db.WithContext(ctx).Create(cafe).Error; err != nil {
		return translate("create cafe", err)
	}
	return nil
}

func (r *CafeRepository) GetByID(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := r.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query cafe by id failed: %w", err)
	}
	return &cafe, nil
}

func (r *CafeRepository) List(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes failed: %w", err)
	}
	return cafes, nil
}

// UpdateByIDAndOwner overwrites every mutable column of the cafe row,
// including zero values, but only when the row is owned by ownerID.
func (r *CafeRepository) UpdateByIDAndOwner(ctx context.Context, cafe *model.Cafe, ownerID uint) error {
	err := r.db.WithContext(ctx).
		Model(cafe).
		Where("created_by = ?", ownerID).
		Select("*").
		Omit("id", "created_by", "created_at").
		Updates(cafe).Error
	if err != nil {
		return translate("update cafe", err)
	}
	return nil
}

// DeleteByIDAndOwner removes the cafe and its reviews in one transaction.
func (r *CafeRepository) DeleteByIDAndOwner(ctx context.Context, cafeID, ownerID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND created_by = ?", cafeID, ownerID).Delete(&model.Cafe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("cafe_id = ?", cafeID).Delete(&model.Review{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete cafe failed: %w", err)
	}
	return deleted, nil
}
