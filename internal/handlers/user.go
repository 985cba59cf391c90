package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UserHandler serves account search and public profiles
type UserHandler struct {
	accounts AccountService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth RouteAuth) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser, auth.Optional)
}

// SearchUsers matches display names case-insensitively
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.accounts.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GetUser returns a profile by external id or numeric id
func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.accounts.Profile(c.Request().Context(), c.Param("id"), viewerID(c, h.accounts))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
