package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/snapfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as {success:false, error, message}.
// Failures are logged by the request logger, not here.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, reason, message := classify(err)

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{
				"success": false,
				"error":   reason,
				"message": message,
			})
		}
		if err != nil {
			log.WithError(err).Warn("failed to write error response")
		}
	}
}

func classify(err error) (int, string, string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := statusFor(svcErr.Kind)
		if status >= http.StatusInternalServerError {
			return status, svcErr.Reason, "internal server error"
		}
		return status, svcErr.Reason, svcErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}
		if httpErr.Code >= http.StatusInternalServerError {
			message = "internal server error"
		}
		return httpErr.Code, reasonForStatus(httpErr.Code), message
	}

	return http.StatusInternalServerError, services.ReasonStoreUnavailable, "internal server error"
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalidInput"
	case http.StatusUnauthorized:
		return services.ReasonUnauthorized
	case http.StatusForbidden:
		return services.ReasonForbidden
	case http.StatusNotFound:
		return "notFound"
	case http.StatusMethodNotAllowed:
		return "methodNotAllowed"
	case http.StatusRequestEntityTooLarge:
		return "payloadTooLarge"
	}
	if status >= http.StatusInternalServerError {
		return "internal"
	}
	return "error"
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
