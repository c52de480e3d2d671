//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"beat-fulfillment/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	svc := jwt.NewService("unit-test-secret", time.Hour)
	buyerID := uuid.New()

	t.Run("success: issued token validates to the same buyer", func(t *testing.T) {
		token, err := svc.GenerateToken(buyerID)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, buyerID, claims.UserID)
	})

	t.Run("error: token signed with another secret", func(t *testing.T) {
		token, err := jwt.NewService("other-secret", time.Hour).GenerateToken(buyerID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("error: expired token", func(t *testing.T) {
		token, err := jwt.NewService("unit-test-secret", -time.Minute).GenerateToken(buyerID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("error: garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
