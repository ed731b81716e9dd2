package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

func createExpiredStory(t *testing.T, db *gorm.DB, userID uint, mediaID string) *models.Story {
	t.Helper()
	story := &models.Story{
		UserID:    userID,
		Type:      models.ContentTypeImage,
		MediaID:   mediaID,
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(story).Error)
	return story
}

func TestStoryRepository_CreateSetsExpiry(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	story := &models.Story{UserID: user.ID, Type: models.ContentTypeText, Content: "hi"}
	require.NoError(t, repo.CreateStory(ctx, story))

	assert.NotZero(t, story.ID)
	ttl := story.ExpiresAt.Sub(story.CreatedAt)
	assert.Equal(t, repositories.StoryTTL, ttl)
}

func TestStoryRepository_ExpiredStoriesInvisible(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	active := &models.Story{UserID: user.ID, Type: models.ContentTypeText, Content: "fresh"}
	require.NoError(t, repo.CreateStory(ctx, active))
	expired := createExpiredStory(t, db, user.ID, "")

	_, err := repo.GetActiveByID(ctx, expired.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetActiveByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	stories, err := repo.GetActiveForUsers(ctx, []uint{user.ID})
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, active.ID, stories[0].ID)
}

func TestStoryRepository_GetActiveForUsersEmptyInput(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)

	stories, err := repo.GetActiveForUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestStoryRepository_MarkSeenIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	story := &models.Story{UserID: author.ID, Type: models.ContentTypeText, Content: "hi"}
	require.NoError(t, repo.CreateStory(ctx, story))

	require.NoError(t, repo.MarkSeen(ctx, story.ID, viewer.ID))
	require.NoError(t, repo.MarkSeen(ctx, story.ID, viewer.ID))

	var count int64
	require.NoError(t, db.Model(&models.StorySeen{}).
		Where("story_id = ? AND user_id = ?", story.ID, viewer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	seen, err := repo.GetSeenStoryIDs(ctx, viewer.ID, []uint{story.ID})
	require.NoError(t, err)
	assert.True(t, seen[story.ID])
}

func TestStoryRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	story := &models.Story{UserID: author.ID, Type: models.ContentTypeText, Content: "hi"}
	require.NoError(t, repo.CreateStory(ctx, story))

	liked, err := repo.ToggleLike(ctx, story.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.CountLikes(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err = repo.ToggleLike(ctx, story.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = repo.CountLikes(ctx, story.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoryRepository_UpsertReactionOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	story := &models.Story{UserID: author.ID, Type: models.ContentTypeText, Content: "hi"}
	require.NoError(t, repo.CreateStory(ctx, story))

	require.NoError(t, repo.UpsertReaction(ctx, &models.StoryReaction{
		StoryID: story.ID, UserID: viewer.ID, Reaction: "fire",
	}))
	require.NoError(t, repo.UpsertReaction(ctx, &models.StoryReaction{
		StoryID: story.ID, UserID: viewer.ID, Reaction: "heart",
	}))

	var reactions []models.StoryReaction
	require.NoError(t, db.Where("story_id = ?", story.ID).Find(&reactions).Error)
	require.Len(t, reactions, 1)
	assert.Equal(t, "heart", reactions[0].Reaction)
}

func TestStoryRepository_TombstoneExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")

	active := &models.Story{UserID: user.ID, Type: models.ContentTypeText, Content: "keep"}
	require.NoError(t, repo.CreateStory(ctx, active))

	expiredMedia := createExpiredStory(t, db, user.ID, "media-1")
	createExpiredStory(t, db, user.ID, "")

	// Per-story state on the expired story must go with it.
	_, err := repo.ToggleLike(ctx, expiredMedia.ID, viewer.ID)
	require.NoError(t, err)
	require.NoError(t, repo.MarkSeen(ctx, expiredMedia.ID, viewer.ID))
	require.NoError(t, repo.UpsertReaction(ctx, &models.StoryReaction{
		StoryID: expiredMedia.ID, UserID: viewer.ID, Reaction: "fire",
	}))

	purged, err := repo.TombstoneExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	// Active story untouched, expired rows gone.
	_, err = repo.GetActiveByID(ctx, active.ID)
	require.NoError(t, err)
	var storyCount int64
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)
	assert.Equal(t, int64(1), storyCount)

	var likeCount, seenCount, reactionCount int64
	require.NoError(t, db.Model(&models.StoryLike{}).Count(&likeCount).Error)
	require.NoError(t, db.Model(&models.StorySeen{}).Count(&seenCount).Error)
	require.NoError(t, db.Model(&models.StoryReaction{}).Count(&reactionCount).Error)
	assert.Zero(t, likeCount)
	assert.Zero(t, seenCount)
	assert.Zero(t, reactionCount)

	// Only the story with a media object leaves a tombstone.
	tombs, err := repo.PendingTombstones(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tombs, 1)
	assert.Equal(t, "media-1", tombs[0].MediaID)

	require.NoError(t, repo.DeleteTombstone(ctx, tombs[0].ID))
	tombs, err = repo.PendingTombstones(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tombs)
}

func TestStoryRepository_TombstoneExpiredNothingToDo(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresStoryRepository(db)

	purged, err := repo.TombstoneExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, purged)
}
