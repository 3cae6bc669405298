package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("advisor-1", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "advisor-1", claims.AdvisorID)
	assert.Equal(t, "advisor-1", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := NewAccessToken("advisor-1", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := NewAccessToken("advisor-1", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)

	anonymous, err := NewAccessToken("", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(anonymous, testSecret)
	assert.ErrorIs(t, err, ErrMissingAdvisor)
}

func TestAdvisorIDContext(t *testing.T) {
	_, ok := GetAdvisorIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := GetAdvisorIDFromContext(WithAdvisorID(context.Background(), "advisor-7"))
	assert.True(t, ok)
	assert.Equal(t, "advisor-7", id)
}
