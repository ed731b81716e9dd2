package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, likeRepo repositories.LikeRepository, commentRepo repositories.CommentRepository) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contentType := models.ContentType(req.Type)
	if !contentType.ValidateContent(req.Content, req.MediaID) {
		return apperrors.Validation("text posts need content, media posts need a media id")
	}

	post := &models.Post{
		UserID:  currentUserID,
		Type:    contentType,
		Content: req.Content,
		MediaID: req.MediaID,
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetPost returns a single enriched post
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.NotFound("post not found")
	}

	resp, err := h.enrichPost(post, getUserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"post": resp}})
}

// DeletePost deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.NotFound("post not found")
	}
	if post.UserID != getUserIDFromContext(c) {
		return apperrors.Forbidden("cannot delete another user's post")
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "post deleted"})
}

// GetUserPosts returns a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	page, limit := pagination(c)

	posts, err := h.postRepository.GetPostsByUserID(userID, page, limit)
	if err != nil {
		return err
	}

	enriched, err := h.enrichPosts(posts, getUserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": enriched}})
}

func (h *PostHandler) enrichPost(post *models.Post, viewerID uint) (*models.PostResponse, error) {
	author, err := h.userRepository.GetUserByID(post.UserID)
	if err != nil {
		return nil, err
	}

	likes, err := h.likeRepository.CountForPost(post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := h.commentRepository.CountForPost(post.ID)
	if err != nil {
		return nil, err
	}

	liked := false
	if viewerID != 0 {
		liked, _ = h.likeRepository.HasUserLikedPost(post.ID, viewerID)
	}

	return &models.PostResponse{
		Post:          *post,
		Author:        author.ToCompact(),
		LikesCount:    likes,
		CommentsCount: comments,
		LikedByViewer: liked,
	}, nil
}

func (h *PostHandler) enrichPosts(posts []models.Post, viewerID uint) ([]models.PostResponse, error) {
	enriched := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := h.enrichPost(&posts[i], viewerID)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, *resp)
	}
	return enriched, nil
}
