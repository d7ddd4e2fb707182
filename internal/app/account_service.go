package app

import (
	"context"
	"errors"
	"time"

	"cafehub/internal/model"
	"cafehub/internal/repository"
)

type AccountService struct {
	userRepo UserRepository
	now      func() time.Time
}

type UpdateAccountInput struct {
	UserID          uint
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func NewAccountService(userRepo UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo, now: time.Now}
}

// UpdateAccount changes the email and optionally the password of the user.
// Nothing is written unless the current password verifies.
func (s *AccountService) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*model.User, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	if !passwordMatches(user.PasswordHash, input.CurrentPassword) {
		return nil, ErrWrongCurrentPassword
	}

	email := normalizeEmail(input.Email)
	if email != "" && email != user.Email {
		owner, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != user.ID {
			return nil, ErrEmailExists
		}
		user.Email = email
	}

	if input.NewPassword != "" || input.ConfirmPassword != "" {
		if err := checkNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
			return nil, err
		}
		hash, err := hashPassword(input.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}
