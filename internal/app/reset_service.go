package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafehub/internal/model"
)

const (
	ResetCodeLength    = 6
	DefaultResetTTL    = 15 * time.Minute
	DefaultMaxAttempts = 5
)

type ResetService struct {
	userRepo    UserRepository
	mailer      ResetMailer
	codeTTL     time.Duration
	maxAttempts int
	now         func() time.Time
	log         *zap.Logger
}

type VerifyResetInput struct {
	Token           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

func NewResetService(userRepo UserRepository, mailer ResetMailer, codeTTL time.Duration, maxAttempts int, log *zap.Logger) *ResetService {
	if codeTTL <= 0 {
		codeTTL = DefaultResetTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ResetService{
		userRepo:    userRepo,
		mailer:      mailer,
		codeTTL:     codeTTL,
		maxAttempts: maxAttempts,
		now:         time.Now,
		log:         log,
	}
}

// RequestReset always returns a token for the verification page, whether or
// not the email belongs to an account. Only a matching account gets a code
// and an email.
func (s *ResetService) RequestReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return uuid.NewString(), nil
	}

	code, err := generateCode(ResetCodeLength)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	expiresAt := s.now().Add(s.codeTTL)

	user.ResetToken = &token
	user.ResetCode = &code
	user.ResetExpiresAt = &expiresAt
	user.ResetAttempts = 0
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	if s.mailer != nil {
		mail := model.ResetMail{
			To:        user.Email,
			Username:  user.Username,
			Code:      code,
			ExpiresAt: expiresAt,
		}
		if err := s.mailer.SendResetCode(ctx, mail); err != nil {
			s.log.Error("send reset code failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}
	return token, nil
}

func (s *ResetService) VerifyReset(ctx context.Context, input VerifyResetInput) error {
	if err := checkNewPassword(input.NewPassword, input.ConfirmPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetToken(ctx, strings.TrimSpace(input.Token))
	if err != nil {
		return err
	}
	now := s.now()
	if user == nil || !user.HasPendingReset(now) {
		return ErrInvalidResetCode
	}

	code := strings.TrimSpace(input.Code)
	if subtle.ConstantTimeCompare([]byte(*user.ResetCode), []byte(code)) != 1 {
		user.ResetAttempts++
		if user.ResetAttempts >= s.maxAttempts {
			s.log.Warn("reset code locked after failed attempts", zap.Uint("user_id", user.ID))
			user.ClearReset()
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return ErrInvalidResetCode
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearReset()
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.log.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}

func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate reset code failed: %w", err)
		}
		digits[i] = byte(n.Int64()) + '0'
	}
	return string(digits), nil
}
