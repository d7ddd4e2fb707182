package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := generateCode(ResetCodeLength)
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestRequestReset_UnknownEmailLooksTheSame(t *testing.T) {
	f := newFixture(t)

	token, err := f.reset.RequestReset(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, f.mailer.sent)

	err = f.reset.VerifyReset(context.Background(), VerifyResetInput{
		Token: token, Code: "000000", NewPassword: "newpass", ConfirmPassword: "newpass",
	})
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "secret1")

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.reset.now = func() time.Time { return clock }

	token, err := f.reset.RequestReset(ctx, "ALICE@x.com")
	require.NoError(t, err)

	mail := f.mailer.last(t)
	assert.Equal(t, "alice@x.com", mail.To)
	assert.Len(t, mail.Code, 6)
	assert.Equal(t, clock.Add(15*time.Minute), mail.ExpiresAt)

	stored, err := f.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	assert.Equal(t, token, *stored.ResetToken)

	t.Run("password rules apply first", func(t *testing.T) {
		err := f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: mail.Code, NewPassword: "short", ConfirmPassword: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: mail.Code, NewPassword: "newpass1", ConfirmPassword: "newpass2"})
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: mail.Code, NewPassword: "ééé", ConfirmPassword: "ééé"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		long := strings.Repeat("é", 40)
		err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: mail.Code, NewPassword: long, ConfirmPassword: long})
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("another token cannot use this code", func(t *testing.T) {
		err := f.reset.VerifyReset(ctx, VerifyResetInput{Token: "not-" + token, Code: mail.Code, NewPassword: "newpass", ConfirmPassword: "newpass"})
		assert.ErrorIs(t, err, ErrInvalidResetCode)
	})

	clock = clock.Add(14 * time.Minute)
	require.NoError(t, f.reset.VerifyReset(ctx, VerifyResetInput{
		Token: token, Code: " " + mail.Code + " ", NewPassword: "newpass", ConfirmPassword: "newpass",
	}))

	updated, err := f.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, passwordMatches(updated.PasswordHash, "newpass"))
	assert.Nil(t, updated.ResetCode)
	assert.Nil(t, updated.ResetToken)
	assert.Nil(t, updated.ResetExpiresAt)

	err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: mail.Code, NewPassword: "again1", ConfirmPassword: "again1"})
	assert.ErrorIs(t, err, ErrInvalidResetCode, "codes are single use")
}

func TestResetExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "alice@x.com", "secret1")

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.reset.now = func() time.Time { return clock }

	token, err := f.reset.RequestReset(ctx, "alice@x.com")
	require.NoError(t, err)
	code := f.mailer.last(t).Code

	clock = clock.Add(15*time.Minute + time.Second)
	err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: code, NewPassword: "newpass", ConfirmPassword: "newpass"})
	assert.ErrorIs(t, err, ErrInvalidResetCode)

	_, err = f.auth.Login(ctx, LoginInput{Username: "alice", Password: "secret1"})
	assert.NoError(t, err, "old password still works after a failed reset")
}

func TestResetLocksAfterFailedAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "alice@x.com", "secret1")

	token, err := f.reset.RequestReset(ctx, "alice@x.com")
	require.NoError(t, err)
	code := f.mailer.last(t).Code
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < DefaultMaxAttempts; i++ {
		err := f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: wrong, NewPassword: "newpass", ConfirmPassword: "newpass"})
		require.ErrorIs(t, err, ErrInvalidResetCode)
	}

	err = f.reset.VerifyReset(ctx, VerifyResetInput{Token: token, Code: code, NewPassword: "newpass", ConfirmPassword: "newpass"})
	assert.ErrorIs(t, err, ErrInvalidResetCode, "the right code is useless once locked")
}

func TestRequestReset_MailFailureDoesNotLeak(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@x.com", "secret1")
	f.mailer.err = errors.New("smtp down")

	token, err := f.reset.RequestReset(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRequestReset_EmptyEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.reset.RequestReset(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmailRequired)
}
