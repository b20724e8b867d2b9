package service

import (
	"testing"
	"time"

	"bank-ledger/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() *AuthService {
	return NewAuthService("test-secret", time.Hour, bcrypt.MinCost)
}

func TestAuthService_HashAndCheckPin(t *testing.T) {
	auth := newTestAuthService()

	hash, err := auth.HashPin("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, auth.CheckPin("1234", hash))
	assert.False(t, auth.CheckPin("4321", hash))
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := newTestAuthService()
	client := &model.Client{ID: 5, ExternalID: 1001, Role: model.RoleAdmin}

	token, expiresAt, err := auth.GenerateToken(client)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.ClientID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "1001", claims.Subject)
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	auth := newTestAuthService()

	t.Run("foreign signature", func(t *testing.T) {
		other := NewAuthService("other-secret", time.Hour, bcrypt.MinCost)
		token, _, err := other.GenerateToken(&model.Client{ID: 1, Role: model.RoleClient})
		require.NoError(t, err)

		_, err = auth.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService("test-secret", -time.Minute, bcrypt.MinCost)
		token, _, err := expired.GenerateToken(&model.Client{ID: 1, Role: model.RoleClient})
		require.NoError(t, err)

		_, err = auth.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		claims := &model.AppClaims{ClientID: 1, Role: model.RoleAdmin}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
