package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafehub/internal/model"
	"cafehub/internal/pkg/jwtutil"
	"cafehub/internal/repository"
)

type AuthService struct {
	userRepo   UserRepository
	sessions   SessionStore
	secret     string
	sessionTTL time.Duration
	log        *zap.Logger
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

func NewAuthService(userRepo UserRepository, sessions SessionStore, secret string, sessionTTL time.Duration, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Register creates an account. The caller still has to log in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" {
		return nil, ErrIdentityRequired
	}

	existingByName, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	if err := checkNewPassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			if taken, _ := s.userRepo.GetByUsername(ctx, username); taken != nil {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !passwordMatches(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredential
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Save(ctx, sessionID, user.ID, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("save session failed: %w", err)
	}

	token, err := jwtutil.GenerateToken(s.secret, s.sessionTTL, user.ID, user.Username, sessionID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTTL),
		User:      user,
	}, nil
}

// Authenticate resolves a session cookie into its user. Any token that is
// malformed, expired, revoked or orphaned yields ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := jwtutil.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	userID, ok, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session failed: %w", err)
	}
	if !ok || userID != claims.UserID {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.Delete(ctx, claims.SessionID)
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Logout revokes the session behind token. Unknown or invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := jwtutil.ParseToken(s.secret, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("revoke session failed: %w", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(ctx, id)
}
