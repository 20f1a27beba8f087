package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/auth"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	token, err := issuer.IssueSession(42)
	require.NoError(t, err)

	uid, err := issuer.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenIssuer("secret-a", time.Hour).IssueSession(1)
	require.NoError(t, err)

	_, err = auth.NewTokenIssuer("secret-b", time.Hour).ParseSession(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSessionToken_Expired(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", -time.Minute)

	token, err := issuer.IssueSession(1)
	require.NoError(t, err)

	_, err = issuer.ParseSession(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSessionToken_Garbage(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	_, err := issuer.ParseSession("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestStateToken_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	token, err := issuer.IssueState("nonce-123")
	require.NoError(t, err)

	state, err := issuer.ParseState(token)
	require.NoError(t, err)
	assert.Equal(t, "nonce-123", state)
}

func TestStateToken_NotValidAsSession(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	token, err := issuer.IssueState("nonce-123")
	require.NoError(t, err)

	_, err = issuer.ParseSession(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, auth.CheckPassword("hunter22", hash))
	assert.False(t, auth.CheckPassword("hunter23", hash))
}

func TestRandomPassword_Unique(t *testing.T) {
	assert.NotEqual(t, auth.RandomPassword(), auth.RandomPassword())
}
