package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/pkg/logger"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows the target if not followed yet, unfollows otherwise.
// Only the follow-on transition creates a notification.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	targetID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if currentUserID == targetID {
		return apperrors.Validation("cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, targetID)
	if err != nil {
		return err
	}

	if isFollowing {
		if err := h.followRepository.DeleteFollow(currentUserID, targetID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
	}

	follow := &models.Follow{FollowerID: currentUserID, FollowingID: targetID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return err
	}

	actor, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		notif := &models.Notification{
			Type:        models.NotificationTypeFollow,
			ActorID:     currentUserID,
			RecipientID: target.ID,
			Message:     actor.Name + " started following you",
		}
		if err := h.notificationRepository.CreateNotification(notif); err != nil {
			logger.Warn("creating follow notification", "recipient_id", target.ID, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// GetFollowers lists the users following the target
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	users, err := h.followRepository.GetFollowers(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(users)}})
}

// GetFollowing lists the users the target follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	users, err := h.followRepository.GetFollowing(userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(users)}})
}

func toCompactList(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}
	return compact
}
