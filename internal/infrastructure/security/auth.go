// Package security provides JWT-based authentication for the API
package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/infrastructure/config"
)

// AuthService issues and validates API access tokens
type AuthService struct {
	logger     *zap.Logger
	jwtSecret  []byte
	expiration time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		logger:     logger,
		jwtSecret:  []byte(cfg.Auth.JWTSecret),
		expiration: cfg.Auth.JWTExpiration,
	}
}

// Claims represents JWT claims structure
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Tier   string `json:"tier"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed access token for a user
func (a *AuthService) GenerateToken(userID, email, tier string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Tier:   tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "platemuse",
			Subject:   userID,
			Audience:  []string{"platemuse-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and verifies an access token
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
