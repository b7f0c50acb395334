package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"cardbank/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

// GenerateToken signs an access token for the given claims. The JWT secret
// comes from the JWT_SECRET environment variable.
func GenerateToken(claims *models.CustomerClaims) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "cardbank-api",
		Subject:   strconv.FormatUint(uint64(claims.CustomerID), 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(tokenString string) (*models.CustomerClaims, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.CustomerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*models.CustomerClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
