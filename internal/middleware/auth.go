package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ContextKeyFirebaseUID holds the verified caller in the echo context
const ContextKeyFirebaseUID = "firebaseUID"

// Authenticator resolves the bearer token of a request into a Firebase UID.
// Session tokens are tried first, then raw Firebase ID tokens when a verifier is set.
type Authenticator struct {
	secret   string
	verifier IDTokenVerifier
	log      logrus.FieldLogger
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(secret string, verifier IDTokenVerifier, log logrus.FieldLogger) *Authenticator {
	return &Authenticator{secret: secret, verifier: verifier, log: log}
}

// Required rejects requests without a valid token
func (a *Authenticator) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed Authorization header")
			}
			uid, ok := a.authenticate(c, tokenString)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(ContextKeyFirebaseUID, uid)
			return next(c)
		}
	}
}

// Optional sets the caller when a valid token is present and otherwise continues anonymously
func (a *Authenticator) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString, ok := bearerToken(c); ok {
				if uid, ok := a.authenticate(c, tokenString); ok {
					c.Set(ContextKeyFirebaseUID, uid)
				}
			}
			return next(c)
		}
	}
}

func (a *Authenticator) authenticate(c echo.Context, tokenString string) (string, bool) {
	uid, err := ParseSession(a.secret, tokenString)
	if err == nil {
		return uid, true
	}
	if a.verifier == nil {
		return "", false
	}
	uid, ferr := verifyFirebaseToken(c.Request().Context(), a.verifier, tokenString)
	if ferr != nil {
		a.log.WithError(ferr).Debug("token rejected")
		return "", false
	}
	return uid, true
}

// FirebaseUID returns the verified caller, or "" for anonymous requests
func FirebaseUID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyFirebaseUID).(string)
	return uid
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
