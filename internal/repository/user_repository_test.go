package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/model"
	"cafehub/internal/repository"
	"cafehub/internal/testutil"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	user := &model.User{Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missingID, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missingID)
}

func TestUserRepository_DuplicateIsTranslated(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	require.NoError(t, repo.Create(ctx, &model.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}))

	err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = repo.Create(ctx, &model.User{Username: "other", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_ResetTokenLookupAndPrune(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	stale, fresh := "stale-token", "fresh-token"
	code := "123456"

	expired := &model.User{Username: "a", Email: "a@x.com", PasswordHash: "h", ResetToken: &stale, ResetCode: &code, ResetExpiresAt: &past}
	pending := &model.User{Username: "b", Email: "b@x.com", PasswordHash: "h", ResetToken: &fresh, ResetCode: &code, ResetExpiresAt: &future}
	idle := &model.User{Username: "c", Email: "c@x.com", PasswordHash: "h"}
	for _, u := range []*model.User{expired, pending, idle} {
		require.NoError(t, repo.Create(ctx, u))
	}

	found, err := repo.GetByResetToken(ctx, fresh)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, pending.ID, found.ID)

	none, err := repo.GetByResetToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)

	cleared, err := repo.ClearExpiredResets(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	reloaded, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ResetToken)
	assert.Nil(t, reloaded.ResetCode)

	stillPending, err := repo.GetByResetToken(ctx, fresh)
	require.NoError(t, err)
	assert.NotNil(t, stillPending)
}

func TestUserRepository_UpdateClearsReset(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	token, code := "tok", "654321"
	exp := time.Now().Add(time.Minute)
	user := &model.User{Username: "a", Email: "a@x.com", PasswordHash: "h", ResetToken: &token, ResetCode: &code, ResetExpiresAt: &exp}
	require.NoError(t, repo.Create(ctx, user))

	user.ClearReset()
	user.PasswordHash = "new"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
	assert.Nil(t, got.ResetToken)
	assert.Nil(t, got.ResetExpiresAt)
}
