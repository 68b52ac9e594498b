package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserKey = "user"

	// TokenTTL is the validity window of every issued token.
	TokenTTL = time.Hour
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrMissingSecret = errors.New("token secret is not configured")
)

type Claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken signs the user's identity with a one hour expiry.
func GenerateToken(id int, username, secret string) (string, error) {
	return generateToken(id, username, TokenTTL, secret)
}

func generateToken(id int, username string, duration time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := Claims{
		ID:       id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates and parses JWT token
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SetUser attaches the verified identity to the request context
func SetUser(c *gin.Context, claims *Claims) {
	c.Set(UserKey, claims)
}

// GetUserFromContext extracts the verified identity from Gin context
func GetUserFromContext(c *gin.Context) (*Claims, error) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	claims, ok := value.(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return claims, nil
}
