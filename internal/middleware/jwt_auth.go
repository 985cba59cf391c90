package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 72 * time.Hour

var ErrInvalidSession = errors.New("invalid session token")

// SignSession issues an HS256 session token whose subject is the Firebase UID
func SignSession(secret, firebaseUID string, now time.Time) (string, error) {
	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   firebaseUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSession verifies a session token and returns the Firebase UID it was issued for
func ParseSession(secret, tokenString string) (string, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
