package handlers

import (
	"strconv"

	"github.com/anonto42/snapfeed/backend/internal/middleware"
	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// currentUser resolves the authenticated caller into an account
func currentUser(c echo.Context, accounts AccountService) (*models.User, error) {
	return accounts.ResolveCaller(c.Request().Context(), middleware.FirebaseUID(c))
}

// viewerID returns the caller's account id on optional-auth routes. Anonymous callers,
// unsynced accounts and lookup failures all read as no viewer.
func viewerID(c echo.Context, accounts AccountService) *uint {
	uid := middleware.FirebaseUID(c)
	if uid == "" {
		return nil
	}
	user, err := accounts.ResolveCaller(c.Request().Context(), uid)
	if err != nil {
		return nil
	}
	return &user.ID
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

func intQuery(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}
