package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

func TestFollowRepository_FollowLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	following, err = repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Follow is directional.
	following, err = repo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	count, err := repo.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = repo.GetFollowingCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.DeleteFollow(alice.ID, bob.ID))
	following, err = repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepository_DeleteMissingFollow(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	err := repo.DeleteFollow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFollowRepository_FollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresFollowRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}))
	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: carol.ID, FollowingID: bob.ID}))

	followers, err := repo.GetFollowers(bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := repo.GetFollowing(alice.ID)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	ids, err := repo.GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)
}

func TestLikeRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	likeRepo := repositories.NewPostgresLikeRepository(db)

	alice := createTestUser(t, db, "alice")
	post := &models.Post{UserID: alice.ID, Type: models.ContentTypeText, Content: "hello"}
	require.NoError(t, db.Create(post).Error)

	liked, err := likeRepo.ToggleLike(post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	has, err := likeRepo.HasUserLikedPost(post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, has)

	count, err := likeRepo.CountForPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err = likeRepo.ToggleLike(post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = likeRepo.CountForPost(post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
