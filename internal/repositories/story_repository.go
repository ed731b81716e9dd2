package repositories

import (
	"context"
	"time"

	"github.com/wavegram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryTTL is the fixed expiry horizon, owned here so services never
// recompute it.
const StoryTTL = 24 * time.Hour

// StoryRepository defines the interface for story operations. Every read
// applies the active-story predicate (expires_at > now); expired rows are
// invisible even before the cleanup job purges them.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetActiveByID(ctx context.Context, id uint) (*models.Story, error)
	GetActiveForUsers(ctx context.Context, userIDs []uint) ([]models.Story, error)
	MarkSeen(ctx context.Context, storyID, userID uint) error
	GetSeenStoryIDs(ctx context.Context, userID uint, storyIDs []uint) (map[uint]bool, error)
	ToggleLike(ctx context.Context, storyID, userID uint) (liked bool, err error)
	CountLikes(ctx context.Context, storyID uint) (int64, error)
	UpsertReaction(ctx context.Context, reaction *models.StoryReaction) error
	TombstoneExpired(ctx context.Context) (int64, error)
	PendingTombstones(ctx context.Context, limit int) ([]models.MediaTombstone, error)
	DeleteTombstone(ctx context.Context, id uint) error
}

type postgresStoryRepository struct {
	db *gorm.DB
}

func NewPostgresStoryRepository(db *gorm.DB) StoryRepository {
	return &postgresStoryRepository{db: db}
}

func (r *postgresStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	now := time.Now()
	story.CreatedAt = now
	story.ExpiresAt = now.Add(StoryTTL)
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *postgresStoryRepository) GetActiveByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&story).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *postgresStoryRepository) GetActiveForUsers(ctx context.Context, userIDs []uint) ([]models.Story, error) {
	var stories []models.Story
	if len(userIDs) == 0 {
		return stories, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND expires_at > ?", userIDs, time.Now()).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// MarkSeen is idempotent; a repeat view is swallowed by the unique index.
func (r *postgresStoryRepository) MarkSeen(ctx context.Context, storyID, userID uint) error {
	seen := models.StorySeen{StoryID: storyID, UserID: userID, SeenAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&seen).Error
}

func (r *postgresStoryRepository) GetSeenStoryIDs(ctx context.Context, userID uint, storyIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(storyIDs) == 0 {
		return result, nil
	}
	var seen []models.StorySeen
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id IN ?", userID, storyIDs).
		Find(&seen).Error
	if err != nil {
		return nil, err
	}
	for _, s := range seen {
		result[s.StoryID] = true
	}
	return result, nil
}

// ToggleLike removes the like if present, creates it otherwise.
func (r *postgresStoryRepository) ToggleLike(ctx context.Context, storyID, userID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.StoryLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		liked = true
		return tx.Create(&models.StoryLike{StoryID: storyID, UserID: userID}).Error
	})
	return liked, err
}

func (r *postgresStoryRepository) CountLikes(ctx context.Context, storyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StoryLike{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, err
}

// UpsertReaction keeps at most one reaction per (story, user); the latest
// overwrites label and timestamp.
func (r *postgresStoryRepository) UpsertReaction(ctx context.Context, reaction *models.StoryReaction) error {
	reaction.CreatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction", "created_at"}),
		}).
		Create(reaction).Error
}

// TombstoneExpired copies the media refs of expired stories into
// media_tombstones and deletes the rows, in one transaction. Row cleanup
// never waits on the remote store.
func (r *postgresStoryRepository) TombstoneExpired(ctx context.Context) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []models.Story
		if err := tx.Where("expires_at <= ?", time.Now()).Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(expired))
		for _, s := range expired {
			ids = append(ids, s.ID)
			if s.MediaID == "" {
				continue
			}
			tomb := models.MediaTombstone{MediaID: s.MediaID, CreatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "media_id"}},
				DoNothing: true,
			}).Create(&tomb).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Story{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected

		// Associated per-story state goes with the rows.
		if err := tx.Where("story_id IN ?", ids).Delete(&models.StoryLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("story_id IN ?", ids).Delete(&models.StoryReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("story_id IN ?", ids).Delete(&models.StorySeen{}).Error
	})
	return purged, err
}

func (r *postgresStoryRepository) PendingTombstones(ctx context.Context, limit int) ([]models.MediaTombstone, error) {
	var tombs []models.MediaTombstone
	err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Find(&tombs).Error
	return tombs, err
}

func (r *postgresStoryRepository) DeleteTombstone(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MediaTombstone{}, id).Error
}
