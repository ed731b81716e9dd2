package repositories

import (
	"github.com/wavegram/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	ToggleLike(postID, userID uint) (liked bool, err error)
	HasUserLikedPost(postID, userID uint) (bool, error)
	CountForPost(postID uint) (int64, error)
}

type postgresLikeRepository struct {
	db *gorm.DB
}

func NewPostgresLikeRepository(db *gorm.DB) LikeRepository {
	return &postgresLikeRepository{db: db}
}

// ToggleLike removes the like if present, creates it otherwise. Returns the
// resulting liked state.
func (r *postgresLikeRepository) ToggleLike(postID, userID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		liked = true
		return tx.Create(&models.Like{PostID: postID, UserID: userID}).Error
	})
	return liked, err
}

func (r *postgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postgresLikeRepository) CountForPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
