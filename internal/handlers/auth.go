package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/middleware"
	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthHandler exchanges Firebase ID tokens for session tokens
type AuthHandler struct {
	accounts  AccountService
	verifier  middleware.IDTokenVerifier
	jwtSecret string
	log       logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountService, verifier middleware.IDTokenVerifier, jwtSecret string, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, verifier: verifier, jwtSecret: jwtSecret, log: log}
}

// RegisterAuthRoutes registers the session exchange route
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/session", h.CreateSession)
}

// CreateSession verifies the ID token, syncs the account and issues a session token
func (h *AuthHandler) CreateSession(c echo.Context) error {
	var req models.SessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		h.log.WithError(err).Debug("id token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid Firebase ID token")
	}

	user, err := h.accounts.SyncAccount(ctx, services.Identity{
		UID:         token.UID,
		DisplayName: stringClaim(token.Claims, "name"),
		Email:       stringClaim(token.Claims, "email"),
		PictureURL:  stringClaim(token.Claims, "picture"),
	})
	if err != nil {
		return err
	}

	session, err := middleware.SignSession(h.jwtSecret, user.FirebaseUID, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   session,
		"user":    user,
	})
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
