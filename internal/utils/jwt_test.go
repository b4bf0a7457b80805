package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := NewAccessToken("k", id, "STUDENT", 10)
	require.NoError(t, err)

	claims, err := ParseAccessToken("k", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: id, Role: "STUDENT"}, claims)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejects(t *testing.T) {
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("k", none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	notUUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseAccessToken("k", notUUID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestResetToken(t *testing.T) {
	for _, n := range []int{6, 7, 8} {
		tok, err := NewResetToken(n)
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]+$`, tok)
		assert.Len(t, tok, n)
	}
	_, err := NewResetToken(5)
	assert.ErrorIs(t, err, ErrResetTokenLength)
	_, err = NewResetToken(9)
	assert.ErrorIs(t, err, ErrResetTokenLength)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "nope"))

	// out of range costs use the default instead of failing
	_, err = HashPassword("s3cret", 99)
	assert.NoError(t, err)
}
