package handlers

import (
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engagement EngagementService
	accounts   AccountService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement EngagementService, accounts AccountService) *LikeHandler {
	return &LikeHandler{engagement: engagement, accounts: accounts}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, auth RouteAuth) {
	g.POST("/likes", h.LikePost, auth.Required)
	g.DELETE("/likes", h.UnlikePost, auth.Required)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	var req models.LikeRequest
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
	like, err := h.engagement.Like(c.Request().Context(), user.ID, req.PostID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "like": like})
}

// UnlikePost handles unliking a post. Unliking a post that was never liked succeeds.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	var req models.LikeRequest
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
	if err := h.engagement.Unlike(c.Request().Context(), user.ID, req.PostID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
