package utils

import (
	"errors"
	"fmt"
	"time"

	"minilms/backend/config"

	"github.com/golang-jwt/jwt/v4"
)

// Tokens are stateless: there is no server-side revocation, and rotating
// JWT_SECRET invalidates everything previously issued.
const tokenLifetime = 7 * 24 * time.Hour

// TokenClaims is the identity a validated token asserts.
type TokenClaims struct {
	UserID uint
	Role   string
}

// GenerateJWTToken issues a signed token embedding the user's id and role.
func GenerateJWTToken(userID uint, role string, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ValidateToken verifies signature and expiry and returns the decoded
// claims. Any failure (bad signature, malformed token, expired) returns an
// error.
func ValidateToken(tokenString string, cfg *config.Config) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user id in token")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("invalid role in token")
	}

	return &TokenClaims{UserID: uint(userID), Role: role}, nil
}
