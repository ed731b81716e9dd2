package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/cleaner"
	"github.com/wavegram/backend/internal/router"
	"github.com/wavegram/backend/pkg/config"
	"github.com/wavegram/backend/pkg/logger"
	"github.com/wavegram/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Component: "api"})

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	deps, err := router.SetupRoutes(e, db, cfg)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Scheduled story expiry sweep
	storyCleaner := cleaner.NewStoryCleaner(deps.StoryRepository, deps.MediaStore, cfg.StoryCleanupSpec)
	if err := storyCleaner.Start(); err != nil {
		log.Fatalf("Failed to start story cleaner: %v", err)
	}
	defer storyCleaner.Stop()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
