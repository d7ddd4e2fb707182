package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cafehub/internal/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

type RatingSummary struct {
	Average float64
	Count   int64
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return translate("create review", err)
	}
	return nil
}

func (r *ReviewRepository) ListByCafeID(ctx context.Context, cafeID uint) ([]model.ReviewView, error) {
	var reviews []model.ReviewView
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.cafe_id = ?", cafeID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) SummaryByCafeID(ctx context.Context, cafeID uint) (RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("cafe_id = ?", cafeID).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, fmt.Errorf("summarise reviews failed: %w", err)
	}
	summary := RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}
