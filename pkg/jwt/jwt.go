package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "go-resupply-order"

// Claims identify an anonymous ordering session.
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	Anonymous bool      `json:"anonymous"`
	jwt.RegisteredClaims
}

// GetSecretKey returns the JWT secret from environment or a default
func GetSecretKey() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me-resupply-session-secret"
	}
	return []byte(secret)
}

// GenerateToken signs an anonymous session token valid for ttl.
func GenerateToken(sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		Anonymous: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a session token
func ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.SessionID != uuid.Nil {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
