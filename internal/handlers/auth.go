package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

// AuthHandler handles registration and session management.
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

// Register handles user registration with username, email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return apperrors.Conflict("email already registered")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return apperrors.Conflict("username already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("failed to hash password")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		Status:   "Active",
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		// The unique indexes win any race the existence checks missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("username or email already registered")
		}
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperrors.Unauthorized("invalid email or password")
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret)
	if err != nil {
		return apperrors.Internal("failed to generate token")
	}

	c.SetCookie(sessionCookie(token, time.Now().Add(middleware.TokenTTL)))

	// Token is also returned in the body for non-browser clients.
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"token": token, "user": user},
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

func sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
