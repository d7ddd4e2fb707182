package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cafehub/internal/cache"
	"cafehub/internal/model"
	"cafehub/internal/repository"
	"cafehub/internal/testutil"
)

type fixture struct {
	users    *repository.UserRepository
	cafes    *repository.CafeRepository
	reviews  *repository.ReviewRepository
	sessions *cache.MemorySessionStore
	mailer   *recordingMailer
	auth     *AuthService
	reset    *ResetService
	cafe     *CafeService
	account  *AccountService
	review   *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		users:    repository.NewUserRepository(db),
		cafes:    repository.NewCafeRepository(db),
		reviews:  repository.NewReviewRepository(db),
		sessions: cache.NewMemorySessionStore(),
		mailer:   &recordingMailer{},
	}
	f.auth = NewAuthService(f.users, f.sessions, "test-secret", time.Hour, nil)
	f.reset = NewResetService(f.users, f.mailer, DefaultResetTTL, DefaultMaxAttempts, nil)
	f.cafe = NewCafeService(f.cafes, nil, nil)
	f.account = NewAccountService(f.users)
	f.review = NewReviewService(f.reviews, f.cafes)
	return f
}

func (f *fixture) register(t *testing.T, username, email, password string) *model.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return user
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []model.ResetMail
	err  error
}

func (m *recordingMailer) SendResetCode(_ context.Context, mail model.ResetMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) last(t *testing.T) model.ResetMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no reset mail was sent")
	return m.sent[len(m.sent)-1]
}

type mapCafeCache struct {
	items   map[uint]model.Cafe
	deletes int
	failGet bool
}

func newMapCafeCache() *mapCafeCache {
	return &mapCafeCache{items: make(map[uint]model.Cafe)}
}

func (c *mapCafeCache) Get(_ context.Context, cafeID uint) (*model.Cafe, bool, error) {
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	cafe, ok := c.items[cafeID]
	if !ok {
		return nil, false, nil
	}
	return &cafe, true, nil
}

func (c *mapCafeCache) Set(_ context.Context, cafe *model.Cafe) error {
	c.items[cafe.ID] = *cafe
	return nil
}

func (c *mapCafeCache) Delete(_ context.Context, cafeID uint) error {
	c.deletes++
	delete(c.items, cafeID)
	return nil
}
