// Package auth is the identity provider: it issues and verifies the bearer
// tokens that carry a player id.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
)

const MinSecretLength = 32

type Claims struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     []byte
	expiration time.Duration
	clock      clock.Clock
}

func NewTokenService(secret string, expiration time.Duration, clk clock.Clock) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters long", MinSecretLength)
	}
	return &TokenService{secret: []byte(secret), expiration: expiration, clock: clk}, nil
}

func (s *TokenService) Generate(playerID, username string) (string, error) {
	if playerID == "" {
		return "", errors.Validation("player id is required")
	}

	now := s.clock.Now()
	claims := Claims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   playerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.WrapInternal("failed to sign token", err)
	}
	return signed, nil
}

// Validate returns the claims of a well-signed, unexpired token that names
// a player.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.PlayerID == "" {
		return nil, errors.Unauthorized("invalid token")
	}
	return claims, nil
}
