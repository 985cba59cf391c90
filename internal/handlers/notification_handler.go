package handlers

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications NotificationService
	accounts      AccountService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService, accounts AccountService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, accounts: accounts}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, auth RouteAuth) {
	g.GET("/notifications", h.GetNotifications, auth.Required)
	g.PUT("/notifications/:id/read", h.MarkAsRead, auth.Required)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}

	page, err := h.notifications.List(c.Request().Context(), user.ID, intQuery(c, "page"), intQuery(c, "limit"))
	if err != nil {
		return err
	}

	totalPages := int(math.Ceil(float64(page.Total) / float64(page.Limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": page.Notifications,
		"meta": echo.Map{
			"currentPage":  page.Page,
			"totalPages":   totalPages,
			"totalItems":   page.Total,
			"itemsPerPage": page.Limit,
			"hasNextPage":  page.Page < totalPages,
		},
	})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	user, err := currentUser(c, h.accounts)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
