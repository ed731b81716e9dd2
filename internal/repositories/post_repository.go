package repositories

import (
	"time"

	"github.com/wavegram/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserID(userID uint, page, limit int) ([]models.Post, error)
	GetFeed(userIDs []uint, page, limit int) ([]models.Post, error)
	DeletePost(id uint) error
}

type postgresPostRepository struct {
	db *gorm.DB
}

func NewPostgresPostRepository(db *gorm.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) CreatePost(post *models.Post) error {
	post.CreatedAt = time.Now()
	return r.db.Create(post).Error
}

func (r *postgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postgresPostRepository) GetPostsByUserID(userID uint, page, limit int) ([]models.Post, error) {
	var posts []models.Post
	offset := (page - 1) * limit
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// GetFeed returns posts authored by any of userIDs, newest first.
func (r *postgresPostRepository) GetFeed(userIDs []uint, page, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(userIDs) == 0 {
		return posts, nil
	}
	offset := (page - 1) * limit
	err := r.db.Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}
