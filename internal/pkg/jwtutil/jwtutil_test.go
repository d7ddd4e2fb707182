package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour, 42, "alice", "sid-1")
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestParseRejects(t *testing.T) {
	valid, err := GenerateToken("secret", time.Hour, 1, "alice", "sid")
	require.NoError(t, err)
	expired, err := GenerateToken("secret", -time.Minute, 1, "alice", "sid")
	require.NoError(t, err)
	noSession, err := GenerateToken("secret", time.Hour, 1, "alice", "")
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret":  {"other", valid},
		"expired":       {"secret", expired},
		"garbage":       {"secret", "not-a-jwt"},
		"no session id": {"secret", noSession},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
