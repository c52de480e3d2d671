//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"beat-fulfillment/internal/pkg/jwt"
	"beat-fulfillment/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("unit-test-secret", time.Hour)
	validator := usecase.NewTokenValidator(svc)
	buyerID := uuid.New()

	token, err := svc.GenerateToken(buyerID)
	require.NoError(t, err)

	got, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, buyerID, got)

	got, err = validator.ValidateToken("not-a-jwt")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
	assert.Equal(t, uuid.Nil, got)
}
