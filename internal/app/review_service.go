package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"cafehub/internal/model"
	"cafehub/internal/repository"
)

const MaxReviewLength = 1000

type ReviewService struct {
	reviewRepo ReviewRepository
	cafeRepo   CafeRepository
}

type AddReviewInput struct {
	CafeID  uint
	UserID  uint
	Rating  int
	Content string
}

type CafeReviews struct {
	Reviews []model.ReviewView
	Summary repository.RatingSummary
}

func NewReviewService(reviewRepo ReviewRepository, cafeRepo CafeRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, cafeRepo: cafeRepo}
}

func (s *ReviewService) Add(ctx context.Context, input AddReviewInput) (*model.Review, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	cafe, err := s.cafeRepo.GetByID(ctx, input.CafeID)
	if err != nil {
		return nil, err
	}
	if cafe == nil {
		return nil, ErrCafeNotFound
	}

	if input.Rating < model.MinRating || input.Rating > model.MaxRating {
		return nil, ErrInvalidRating
	}
	content := strings.TrimSpace(input.Content)
	if content == "" || utf8.RuneCountInString(content) > MaxReviewLength {
		return nil, ErrReviewContent
	}

	review := &model.Review{
		Rating:  input.Rating,
		Content: content,
		CafeID:  cafe.ID,
		UserID:  input.UserID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListForCafe(ctx context.Context, cafeID uint) (*CafeReviews, error) {
	reviews, err := s.reviewRepo.ListByCafeID(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.SummaryByCafeID(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	return &CafeReviews{Reviews: reviews, Summary: summary}, nil
}
