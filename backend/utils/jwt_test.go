package utils

import (
	"testing"
	"time"

	"minilms/backend/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(42, "instructor", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "instructor", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(42),
		"role":    "student",
		"iat":     time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"exp":     time.Now().Add(-24 * time.Hour).Unix(),
	})
	raw, err := expired.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ValidateToken(raw, cfg)
	assert.Error(t, err)
}

func TestWrongKeyRejected(t *testing.T) {
	token, err := GenerateJWTToken(42, "student", &config.Config{JWTSecret: "key-one"})
	require.NoError(t, err)

	_, err = ValidateToken(token, &config.Config{JWTSecret: "key-two"})
	assert.Error(t, err)
}

func TestMalformedTokenRejected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := ValidateToken(raw, cfg)
		assert.Error(t, err, "token %q", raw)
	}
}

func TestTokenLifetimeIsSevenDays(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	raw, err := GenerateJWTToken(1, "student", cfg)
	require.NoError(t, err)

	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.Equal(t, int64(7*24*60*60), exp-iat)
}
