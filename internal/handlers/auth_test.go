package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/handlers"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/validators"
)

const testSecret = "handler-test-secret"

// newTestApp wires an Echo instance with the same validator, error handler,
// and route layout the server uses, backed by in-memory sqlite.
func newTestApp(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{},
		&models.Follow{}, &models.Notification{},
		&models.Story{}, &models.StoryLike{}, &models.StoryReaction{}, &models.StorySeen{},
	))

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	notifRepo := repositories.NewPostgresNotificationRepository(db)

	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(userRepo, testSecret).RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(testSecret))
	handlers.NewFollowHandler(followRepo, userRepo, notifRepo).RegisterFollowRoutes(api)
	handlers.NewNotificationHandler(notifRepo, userRepo).RegisterNotificationRoutes(api)

	storyRepo := repositories.NewPostgresStoryRepository(db)
	handlers.NewStoryHandler(storyRepo, userRepo, followRepo, notifRepo).RegisterStoryRoutes(api)

	postRepo := repositories.NewPostgresPostRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo)
	postHandler.RegisterPostRoutes(api)
	handlers.NewFeedHandler(postHandler, postRepo, followRepo).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notifRepo).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifRepo).RegisterCommentRoutes(api)

	return e, db
}

func doJSON(e *echo.Echo, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, e *echo.Echo, username string) {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Name:     "User " + username,
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func loginToken(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email:    username + "@example.com",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestRegister_Success(t *testing.T) {
	e, db := newTestApp(t)

	registerUser(t, e, "alice")

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, "alice@example.com", user.Email)
	// Stored as a bcrypt hash, never the raw password.
	assert.NotEqual(t, "supersecret", user.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e, _ := newTestApp(t)
	registerUser(t, e, "alice")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Name: "Other", Password: "supersecret",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRegister_InvalidPayload(t *testing.T) {
	e, _ := newTestApp(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		Username: "al", Email: "not-an-email", Name: "x", Password: "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	e, _ := newTestApp(t)
	registerUser(t, e, "alice")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email: "alice@example.com", Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.TokenCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	claims, err := middleware.ParseToken(sessionCookie.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	e, _ := newTestApp(t)
	registerUser(t, e, "alice")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email: "alice@example.com", Password: "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	e, _ := newTestApp(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email: "ghost@example.com", Password: "supersecret",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	e, _ := newTestApp(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	e, _ := newTestApp(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/notifications", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/notifications", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
