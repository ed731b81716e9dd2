package apperrors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/pkg/logger"
)

// HTTPErrorHandler renders every error as the JSON envelope
// {"success": false, "message": ...}. Unrecognized errors are logged with
// their cause and answered with a generic message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	default:
		mapped := From(err)
		status = mapped.Status
		message = mapped.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, echo.Map{"success": false, "message": message})
}
