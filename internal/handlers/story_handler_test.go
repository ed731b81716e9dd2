package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/models"
)

func userByName(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return &user
}

func expireStory(t *testing.T, db *gorm.DB, storyID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Story{}).Where("id = ?", storyID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
}

func createStoryHTTP(t *testing.T, e *echo.Echo, token string, req models.CreateStoryRequest) uint {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/stories", req, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	story := data["story"].(map[string]interface{})
	return uint(story["id"].(float64))
}

func TestCreateStory_ValidatesContentByType(t *testing.T) {
	e, _ := newTestApp(t)
	registerUser(t, e, "alice")
	token := loginToken(t, e, "alice")

	// Text story without content.
	rec := doJSON(e, http.MethodPost, "/api/v1/stories", models.CreateStoryRequest{Type: "text"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Image story without a media reference.
	rec = doJSON(e, http.MethodPost, "/api/v1/stories", models.CreateStoryRequest{Type: "image", Content: "caption"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown type fails request validation.
	rec = doJSON(e, http.MethodPost, "/api/v1/stories", models.CreateStoryRequest{Type: "gif", Content: "x"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	createStoryHTTP(t, e, token, models.CreateStoryRequest{Type: "text", Content: "hello"})
	createStoryHTTP(t, e, token, models.CreateStoryRequest{Type: "image", MediaID: "obj-1"})
}

func TestGetStory_ExpiredLooksMissing(t *testing.T) {
	e, db := newTestApp(t)
	registerUser(t, e, "alice")
	token := loginToken(t, e, "alice")

	storyID := createStoryHTTP(t, e, token, models.CreateStoryRequest{Type: "text", Content: "hello"})

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/stories/%d", storyID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	expireStory(t, db, storyID)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/stories/%d", storyID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Interactions with an expired story fail the same way.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/v1/stories/%d/seen", storyID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/v1/stories/%d/likes", storyID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoriesFeed_OwnAndFollowedOnly(t *testing.T) {
	e, db := newTestApp(t)
	registerUser(t, e, "alice")
	registerUser(t, e, "bob")
	registerUser(t, e, "carol")

	bobToken := loginToken(t, e, "bob")
	carolToken := loginToken(t, e, "carol")
	createStoryHTTP(t, e, bobToken, models.CreateStoryRequest{Type: "text", Content: "from bob"})
	createStoryHTTP(t, e, carolToken, models.CreateStoryRequest{Type: "text", Content: "from carol"})

	aliceToken := loginToken(t, e, "alice")
	ownID := createStoryHTTP(t, e, aliceToken, models.CreateStoryRequest{Type: "text", Content: "from alice"})

	bob := userByName(t, db, "bob")
	rec := doJSON(e, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", bob.ID), nil, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// Alice sees her own story and bob's, not carol's.
	rec = doJSON(e, http.MethodGet, "/api/v1/stories/feed", nil, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	stories := data["stories"].([]interface{})
	require.Len(t, stories, 2)

	authors := make(map[string]bool)
	for _, raw := range stories {
		story := raw.(map[string]interface{})
		author := story["author"].(map[string]interface{})
		authors[author["username"].(string)] = true
		assert.Equal(t, false, story["seen"])
	}
	assert.True(t, authors["alice"])
	assert.True(t, authors["bob"])

	// Seen flag flips after viewing.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/v1/stories/%d/seen", ownID), nil, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/stories/feed", nil, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	for _, raw := range data["stories"].([]interface{}) {
		story := raw.(map[string]interface{})
		if uint(story["id"].(float64)) == ownID {
			assert.Equal(t, true, story["seen"])
		}
	}
}

func TestStoryLikeToggleHTTP(t *testing.T) {
	e, _ := newTestApp(t)
	registerUser(t, e, "alice")
	token := loginToken(t, e, "alice")
	storyID := createStoryHTTP(t, e, token, models.CreateStoryRequest{Type: "text", Content: "hello"})

	path := fmt.Sprintf("/api/v1/stories/%d/likes", storyID)

	rec := doJSON(e, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, true, data["liked"])
	assert.Equal(t, float64(1), data["likes_count"])

	rec = doJSON(e, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, false, data["liked"])
	assert.Equal(t, float64(0), data["likes_count"])
}

func TestReactToStory_NotifiesAuthorOnce(t *testing.T) {
	e, db := newTestApp(t)
	registerUser(t, e, "alice")
	registerUser(t, e, "bob")

	aliceToken := loginToken(t, e, "alice")
	storyID := createStoryHTTP(t, e, aliceToken, models.CreateStoryRequest{Type: "text", Content: "hello"})

	bobToken := loginToken(t, e, "bob")
	path := fmt.Sprintf("/api/v1/stories/%d/reactions", storyID)

	rec := doJSON(e, http.MethodPost, path, models.ReactToStoryRequest{Reaction: "fire"}, bobToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A second reaction overwrites rather than stacking.
	rec = doJSON(e, http.MethodPost, path, models.ReactToStoryRequest{Reaction: "heart"}, bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var reactions []models.StoryReaction
	require.NoError(t, db.Where("story_id = ?", storyID).Find(&reactions).Error)
	require.Len(t, reactions, 1)
	assert.Equal(t, "heart", reactions[0].Reaction)

	alice := userByName(t, db, "alice")
	var notifCount int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", alice.ID, models.NotificationTypeStoryReaction).
		Count(&notifCount).Error)
	assert.Equal(t, int64(2), notifCount)

	// Reacting to your own story creates no notification.
	rec = doJSON(e, http.MethodPost, path, models.ReactToStoryRequest{Reaction: "wave"}, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var selfNotif int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND actor_id = ?", alice.ID, alice.ID).
		Count(&selfNotif).Error)
	assert.Zero(t, selfNotif)
}
