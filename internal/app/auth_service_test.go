package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.register(t, "alice", " Alice@X.com ", "secret1")
	assert.Equal(t, "alice@x.com", alice.Email)
	assert.NotEqual(t, "secret1", alice.PasswordHash)
	assert.True(t, passwordMatches(alice.PasswordHash, "secret1"))

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"duplicate username", RegisterInput{"alice", "other@x.com", "secret1", "secret1"}, ErrUsernameExists},
		{"duplicate email ignores case", RegisterInput{"alice2", "ALICE@x.com", "secret1", "secret1"}, ErrEmailExists},
		{"mismatch", RegisterInput{"bob", "bob@x.com", "secret1", "secret2"}, ErrPasswordMismatch},
		{"too short", RegisterInput{"bob", "bob@x.com", "12345", "12345"}, ErrPasswordTooShort},
		{"too short in characters", RegisterInput{"bob", "bob@x.com", "ééé", "ééé"}, ErrPasswordTooShort},
		{"over bcrypt byte limit", RegisterInput{"bob", "bob@x.com", strings.Repeat("é", 40), strings.Repeat("é", 40)}, ErrPasswordTooLong},
		{"missing username", RegisterInput{"  ", "bob@x.com", "secret1", "secret1"}, ErrIdentityRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
			msg, ok := IsValidation(err)
			assert.True(t, ok)
			assert.NotEmpty(t, msg)
		})
	}

	bob, err := f.users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, bob, "rejected registrations must not create users")

	t.Run("multibyte passwords are counted in characters", func(t *testing.T) {
		zoe := f.register(t, "zoe", "zoe@x.com", "éééééé")
		assert.True(t, passwordMatches(zoe.PasswordHash, "éééééé"))
		f.register(t, "max", "max@x.com", strings.Repeat("a", MaxPasswordBytes))
	})
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "secret1")

	t.Run("bad credentials are indistinguishable", func(t *testing.T) {
		_, errUnknown := f.auth.Login(ctx, LoginInput{Username: "nobody", Password: "secret1"})
		_, errWrong := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "wrong-pass"})
		assert.ErrorIs(t, errUnknown, ErrInvalidCredential)
		assert.ErrorIs(t, errWrong, ErrInvalidCredential)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	result, err := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, alice.ID, result.User.ID)

	user, err := f.auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	t.Run("tampered token", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, result.Token+"x")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(f.users, f.sessions, "other-secret", 0, nil)
		_, err := other.Authenticate(ctx, result.Token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	require.NoError(t, f.auth.Logout(ctx, result.Token))
	_, err = f.auth.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated, "logout must revoke the session")

	assert.NoError(t, f.auth.Logout(ctx, "garbage"))
}

func TestAuthenticate_Empty(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
