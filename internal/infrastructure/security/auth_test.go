package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/infrastructure/config"
)

func newTestAuthService(expiration time.Duration) *AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-key-for-tests-only"
	cfg.Auth.JWTExpiration = expiration
	return NewAuthService(cfg, zap.NewNop())
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	token, err := svc.GenerateToken("user-123", "cook@example.com", "premium")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.Equal(t, "premium", claims.Tier)
	assert.Equal(t, "platemuse", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(-time.Minute)

	token, err := svc.GenerateToken("user-123", "cook@example.com", "free")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService(time.Hour)
	token, err := issuer.GenerateToken("user-123", "cook@example.com", "free")
	require.NoError(t, err)

	verifier := newTestAuthService(time.Hour)
	verifier.jwtSecret = []byte("a-different-secret")

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
