package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/pkg/logger"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
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

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  currentUserID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return err
	}

	if post.UserID != currentUserID {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			notif := &models.Notification{
				Type:        models.NotificationTypeComment,
				ActorID:     currentUserID,
				RecipientID: post.UserID,
				PostID:      postID,
				Message:     actor.Name + " commented on your post",
			}
			if err := h.notificationRepository.CreateNotification(notif); err != nil {
				logger.Warn("creating comment notification", "recipient_id", post.UserID, "error", err)
			}
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}

// GetComments lists a post's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return apperrors.NotFound("post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return err
	}

	userCache := make(map[uint]models.UserCompact)
	enriched := make([]models.CommentResponse, len(comments))
	for i, comment := range comments {
		enriched[i] = models.CommentResponse{Comment: comment}
		if author, ok := userCache[comment.UserID]; ok {
			enriched[i].Author = author
			continue
		}
		if user, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			compact := user.ToCompact()
			userCache[comment.UserID] = compact
			enriched[i].Author = compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": enriched}})
}

// DeleteComment deletes the caller's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return apperrors.NotFound("comment not found")
	}
	if comment.UserID != getUserIDFromContext(c) {
		return apperrors.Forbidden("cannot delete another user's comment")
	}

	if err := h.commentRepository.DeleteComment(commentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "comment deleted"})
}
