package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's id, or 0 when the
// request carries no valid claims.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// paramUint parses a positive integer path parameter.
func paramUint(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(value), nil
}

// pagination reads page/limit query params with sane bounds.
func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
