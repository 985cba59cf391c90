package handlers

import (
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement EngagementService
	accounts   AccountService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement EngagementService, accounts AccountService) *CommentHandler {
	return &CommentHandler{engagement: engagement, accounts: accounts}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth RouteAuth) {
	g.POST("/comments", h.CreateComment, auth.Required)
	g.DELETE("/comments/:id", h.DeleteComment, auth.Required)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
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
	comment, err := h.engagement.CreateComment(c.Request().Context(), user, req.PostID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "comment": comment.View()})
}

// DeleteComment removes a comment written by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	if err := h.engagement.DeleteComment(c.Request().Context(), user.ID, commentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
