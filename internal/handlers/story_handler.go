package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/pkg/logger"
)

// Every read below goes through the repository's active-story predicate, so
// an expired-but-unpurged story is indistinguishable from a missing one.
const storyNotFoundMsg = "story not found or expired"

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository        repositories.StoryRepository
	userRepository         repositories.UserRepository
	followRepository       repositories.FollowRepository
	notificationRepository repositories.NotificationRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, followRepo repositories.FollowRepository, notifRepo repositories.NotificationRepository) *StoryHandler {
	return &StoryHandler{
		storyRepository:        storyRepo,
		userRepository:         userRepo,
		followRepository:       followRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories/feed", h.GetStoriesFeed)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/:id/seen", h.MarkAsSeen)
	g.POST("/stories/:id/likes", h.ToggleLike)
	g.POST("/stories/:id/reactions", h.ReactToStory)
}

// CreateStory creates a new story. Expiry is set by the storage layer.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contentType := models.ContentType(req.Type)
	if !contentType.ValidateContent(req.Content, req.MediaID) {
		return apperrors.Validation("text stories need content, media stories need a media id")
	}

	story := &models.Story{
		UserID:  currentUserID,
		Type:    contentType,
		Content: req.Content,
		MediaID: req.MediaID,
	}
	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story}})
}

// GetStoriesFeed returns active stories of the caller and followed users,
// newest first, with seen flags.
func (h *StoryHandler) GetStoriesFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return err
	}
	authorIDs := append(followingIDs, currentUserID)

	stories, err := h.storyRepository.GetActiveForUsers(c.Request().Context(), authorIDs)
	if err != nil {
		return err
	}

	storyIDs := make([]uint, len(stories))
	for i, s := range stories {
		storyIDs[i] = s.ID
	}
	seenMap, err := h.storyRepository.GetSeenStoryIDs(c.Request().Context(), currentUserID, storyIDs)
	if err != nil {
		return err
	}

	userCache := make(map[uint]models.UserCompact)
	responses := make([]models.StoryResponse, len(stories))
	for i, s := range stories {
		responses[i] = models.StoryResponse{Story: s, Seen: seenMap[s.ID]}
		if author, ok := userCache[s.UserID]; ok {
			responses[i].Author = author
			continue
		}
		if user, err := h.userRepository.GetUserByID(s.UserID); err == nil {
			compact := user.ToCompact()
			userCache[s.UserID] = compact
			responses[i].Author = compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": responses}})
}

// GetStory returns a single active story
func (h *StoryHandler) GetStory(c echo.Context) error {
	storyID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetActiveByID(c.Request().Context(), storyID)
	if err != nil {
		return apperrors.NotFound(storyNotFoundMsg)
	}

	resp := models.StoryResponse{Story: *story}
	if author, err := h.userRepository.GetUserByID(story.UserID); err == nil {
		resp.Author = author.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": resp}})
}

// MarkAsSeen marks an active story as seen by the caller
func (h *StoryHandler) MarkAsSeen(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	storyID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.storyRepository.GetActiveByID(c.Request().Context(), storyID); err != nil {
		return apperrors.NotFound(storyNotFoundMsg)
	}

	if err := h.storyRepository.MarkSeen(c.Request().Context(), storyID, currentUserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "marked as seen"})
}

// ToggleLike toggles the caller's like on an active story
func (h *StoryHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	storyID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.storyRepository.GetActiveByID(c.Request().Context(), storyID); err != nil {
		return apperrors.NotFound(storyNotFoundMsg)
	}

	liked, err := h.storyRepository.ToggleLike(c.Request().Context(), storyID, currentUserID)
	if err != nil {
		return err
	}

	count, err := h.storyRepository.CountLikes(c.Request().Context(), storyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked, "likes_count": count},
	})
}

// ReactToStory upserts the caller's reaction on an active story
func (h *StoryHandler) ReactToStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	storyID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetActiveByID(c.Request().Context(), storyID)
	if err != nil {
		return apperrors.NotFound(storyNotFoundMsg)
	}

	var req models.ReactToStoryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reaction := &models.StoryReaction{
		StoryID:  storyID,
		UserID:   currentUserID,
		Reaction: req.Reaction,
	}
	if err := h.storyRepository.UpsertReaction(c.Request().Context(), reaction); err != nil {
		return err
	}

	if story.UserID != currentUserID {
		actor, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			notif := &models.Notification{
				Type:        models.NotificationTypeStoryReaction,
				ActorID:     currentUserID,
				RecipientID: story.UserID,
				StoryID:     storyID,
				Message:     actor.Name + " reacted to your story",
			}
			if err := h.notificationRepository.CreateNotification(notif); err != nil {
				logger.Warn("creating story reaction notification", "recipient_id", story.UserID, "error", err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reaction": reaction}})
}
