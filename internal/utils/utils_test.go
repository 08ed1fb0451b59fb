package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamsfrag_back_end/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("motdepasse")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("motdepasse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("autre", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("motdepasse")
	require.NoError(t, err)
	h2, err := HashPassword("motdepasse")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	_, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "a@b.com", Role: "customer"}

	token, err := GenerateJWT("secret", user)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	token, err := GenerateJWT("secret", &models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = ParseJWT("autre-secret", token)
	assert.Error(t, err)
}

func TestNewTrackingID(t *testing.T) {
	id := NewTrackingID()
	assert.True(t, strings.HasPrefix(id, "TRK"))
	assert.Greater(t, len(id), 3)
}

func TestTrackingQRCode(t *testing.T) {
	png, err := TrackingQRCode("http://localhost:5173/order-status/TRK123")
	require.NoError(t, err)
	// Signature PNG
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
