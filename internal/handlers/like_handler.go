package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/pkg/logger"
)

// LikeHandler handles HTTP requests related to post likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.ToggleLike)
	g.GET("/posts/:id/likes/count", h.GetLikesCount)
}

// ToggleLike likes the post if not liked yet, unlikes it otherwise. The
// like notification is deduplicated per (recipient, actor, post): liking
// again after an unlike does not notify twice.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	postID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.NotFound("post not found")
	}

	liked, err := h.likeRepository.ToggleLike(postID, currentUserID)
	if err != nil {
		return err
	}

	if liked && post.UserID != currentUserID {
		h.notifyLike(post, currentUserID)
	}

	count, err := h.likeRepository.CountForPost(postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked, "likes_count": count},
	})
}

// GetLikesCount returns the like count for a post
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	postID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return apperrors.NotFound("post not found")
	}

	count, err := h.likeRepository.CountForPost(postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likes_count": count}})
}

func (h *LikeHandler) notifyLike(post *models.Post, actorID uint) {
	exists, err := h.notificationRepository.HasLikeNotification(post.UserID, actorID, post.ID)
	if err != nil || exists {
		return
	}

	actor, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		return
	}

	notif := &models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actorID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		Message:     actor.Name + " liked your post",
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		logger.Warn("creating like notification", "recipient_id", post.UserID, "error", err)
	}
}
