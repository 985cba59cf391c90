package handlers

import (
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	engagement EngagementService
	accounts   AccountService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(engagement EngagementService, accounts AccountService) *FollowHandler {
	return &FollowHandler{engagement: engagement, accounts: accounts}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, auth RouteAuth) {
	g.POST("/follows", h.Follow, auth.Required)
	g.DELETE("/follows", h.Unfollow, auth.Required)
}

// Follow starts following another account
func (h *FollowHandler) Follow(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	follow, err := h.engagement.Follow(c.Request().Context(), user.ID, req.FollowingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "follow": follow})
}

// Unfollow stops following an account. Unfollowing someone not followed succeeds.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	if err := h.engagement.Unfollow(c.Request().Context(), user.ID, req.FollowingID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
