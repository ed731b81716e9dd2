package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/media"
)

// MediaHandler handles media upload and download
type MediaHandler struct {
	store media.Store
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(store media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// RegisterMediaRoutes registers media routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media", h.Upload)
	g.GET("/media/:id", h.Download)
}

// Upload stores a multipart file in the object store and returns its id
func (h *MediaHandler) Upload(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.Validation("missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.Validation("unreadable file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	obj, err := h.store.Upload(c.Request().Context(), fileHeader.Filename, contentType, currentUserID, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"media": obj}})
}

// Download streams a stored object
func (h *MediaHandler) Download(c echo.Context) error {
	id := c.Param("id")

	stream, obj, err := h.store.Open(c.Request().Context(), id)
	if err != nil {
		return err
	}
	defer stream.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Stream(http.StatusOK, contentType, stream)
}
