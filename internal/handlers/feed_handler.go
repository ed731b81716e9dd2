package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/repositories"
)

// FeedHandler handles the home feed
type FeedHandler struct {
	postHandler      *PostHandler
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postHandler *PostHandler, postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *FeedHandler {
	return &FeedHandler{
		postHandler:      postHandler,
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns posts from followed users and the caller, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}
	page, limit := pagination(c)

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return err
	}
	authorIDs := append(followingIDs, currentUserID)

	posts, err := h.postRepository.GetFeed(authorIDs, page, limit)
	if err != nil {
		return err
	}

	enriched, err := h.postHandler.enrichPosts(posts, currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": enriched}})
}
