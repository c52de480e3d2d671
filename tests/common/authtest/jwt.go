//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints buyer tokens the way the storefront's identity provider does.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, buyerID uuid.UUID) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(buyerID)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, buyerID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(buyerID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// BearerHeader returns the Authorization header value for a buyer.
func (h *JWTHelper) BearerHeader(t *testing.T, buyerID uuid.UUID) string {
	t.Helper()
	return "Bearer " + h.GenerateToken(t, buyerID)
}
