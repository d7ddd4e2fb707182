package app

import (
	"context"
	"time"

	"cafehub/internal/model"
	"cafehub/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
}

type CafeRepository interface {
	Create(ctx context.Context, cafe *model.Cafe) error
	GetByID(ctx context.Context, id uint) (*model.Cafe, error)
	List(ctx context.Context) ([]model.Cafe, error)
	UpdateByIDAndOwner(ctx context.Context, cafe *model.Cafe, ownerID uint) error
	DeleteByIDAndOwner(ctx context.Context, cafeID, ownerID uint) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByCafeID(ctx context.Context, cafeID uint) ([]model.ReviewView, error)
	SummaryByCafeID(ctx context.Context, cafeID uint) (repository.RatingSummary, error)
}

// SessionStore tracks live login sessions so they can be revoked.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (uint, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type CafeCache interface {
	Get(ctx context.Context, cafeID uint) (*model.Cafe, bool, error)
	Set(ctx context.Context, cafe *model.Cafe) error
	Delete(ctx context.Context, cafeID uint) error
}

type ResetMailer interface {
	SendResetCode(ctx context.Context, mail model.ResetMail) error
}
