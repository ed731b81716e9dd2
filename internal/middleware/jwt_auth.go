package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
)

// TokenCookieName is the cookie carrying the signed session token. The same
// token authenticates HTTP calls and the realtime handshake.
const TokenCookieName = "wavegram_token"

// TokenTTL is the session lifetime.
const TokenTTL = 10 * time.Hour

// GenerateToken signs a session token for the given user.
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}

// TokenFromRequest extracts the session token from the cookie, falling back
// to a bearer Authorization header for non-browser clients.
func TokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.Unauthorized("missing session token")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperrors.Unauthorized("invalid Authorization header format")
	}
	return parts[1], nil
}

// JWTAuthMiddleware checks for a valid session token and stores the claims in
// the request context.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := TokenFromRequest(c.Request())
			if err != nil {
				return err
			}

			claims, err := ParseToken(tokenString, secret)
			if err != nil {
				return err
			}

			c.Set("user", claims)
			return next(c)
		}
	}
}
