package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/wavegram/backend/internal/cache"
	"github.com/wavegram/backend/internal/handlers"
	"github.com/wavegram/backend/internal/media"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/realtime"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/services"
	"github.com/wavegram/backend/pkg/config"
	"github.com/wavegram/backend/pkg/logger"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// Deps are the wired application components SetupRoutes hands back to main.
type Deps struct {
	StoryRepository repositories.StoryRepository
	MediaStore      media.Store
	Hub             *realtime.Hub
}

// SetupRoutes runs migrations, wires repositories through handlers, and
// registers all application routes.
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) (*Deps, error) {
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Story{},
		&models.StoryLike{},
		&models.StoryReaction{},
		&models.StorySeen{},
		&models.MediaTombstone{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}
	logger.Info("auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	storyRepo := repositories.NewPostgresStoryRepository(db.Postgres)
	chatRepo := repositories.NewPostgresChatRepository(db.Postgres)
	messageRepo := repositories.NewPostgresMessageRepository(db.Postgres)

	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	if db.Redis != nil {
		notifRepo = repositories.NewCachedNotificationRepository(notifRepo, cache.NewNotificationCache(db.Redis))
		logger.Info("notification unread counters cached in Redis")
	}

	mediaStore := media.NewGridFSStore(db.GridFS)
	chatService := services.NewChatService(chatRepo, messageRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Realtime endpoint (authenticates its own handshake) ---
	hub := realtime.NewHub(chatService, realtime.NewMemoryRegistry(), cfg.JWTSecret)
	e.GET("/ws", hub.ServeWS)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(postHandler, postRepo, followRepo)
	feedHandler.RegisterFeedRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifRepo)
	followHandler.RegisterFollowRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifRepo)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notifRepo)
	likeHandler.RegisterLikeRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo, followRepo, notifRepo)
	storyHandler.RegisterStoryRoutes(api)

	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)

	mediaHandler := handlers.NewMediaHandler(mediaStore)
	mediaHandler.RegisterMediaRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notifRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info("all routes configured")

	return &Deps{
		StoryRepository: storyRepo,
		MediaStore:      mediaStore,
		Hub:             hub,
	}, nil
}
