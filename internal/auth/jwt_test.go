package auth

import (
	"testing"
	"time"

	"chapter/internal/access"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("secret", "chapter", "chapter", time.Hour)

	token, exp, err := a.GenerateToken(42, access.RoleContent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "content", claims.Role)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := NewJWTAuthenticator("secret", "chapter", "chapter", time.Hour)
	token, _, err := a.GenerateToken(1, access.RoleAdmin)
	require.NoError(t, err)

	other := NewJWTAuthenticator("other-secret", "chapter", "chapter", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAud := NewJWTAuthenticator("secret", "someone-else", "chapter", time.Hour)
	_, err = wrongAud.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTAuthenticator_Expired(t *testing.T) {
	a := NewJWTAuthenticator("secret", "chapter", "chapter", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	a.now = func() time.Time { return issued }

	token, _, err := a.GenerateToken(1, access.RoleAdmin)
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTAuthenticator_InvalidRole(t *testing.T) {
	a := NewJWTAuthenticator("secret", "chapter", "chapter", time.Hour)
	_, _, err := a.GenerateToken(1, access.Role(0))
	assert.ErrorIs(t, err, access.ErrUnknownRole)
}
