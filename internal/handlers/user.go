package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
	}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetProfile)
	g.PATCH("/users/:id", h.UpdateProfile)
	g.PUT("/users/:id/password", h.ChangePassword)
}

// ProfileResponse is the public profile with graph counts.
type ProfileResponse struct {
	models.User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

// GetProfile returns a user's public profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}

	followers, err := h.followRepository.GetFollowersCount(userID)
	if err != nil {
		return err
	}
	following, err := h.followRepository.GetFollowingCount(userID)
	if err != nil {
		return err
	}

	isFollowing := false
	if viewerID := getUserIDFromContext(c); viewerID != 0 && viewerID != userID {
		isFollowing, _ = h.followRepository.IsFollowing(viewerID, userID)
	}

	resp := ProfileResponse{
		User:           *user,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": resp}})
}

// UpdateProfile updates the caller's own profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if getUserIDFromContext(c) != userID {
		return apperrors.Forbidden("cannot update another user's profile")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.AvatarID != "" {
		user.AvatarID = req.AvatarID
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// ChangePassword updates the caller's password after verifying the current one
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	if getUserIDFromContext(c) != userID {
		return apperrors.Forbidden("cannot change another user's password")
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("failed to hash password")
	}
	user.Password = string(hashed)

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password updated"})
}

// SearchUsers searches users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return apperrors.Validation("missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return err
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}
