package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Name      string    `json:"name" gorm:"size:100"`
	Bio       string    `json:"bio" gorm:"size:500"`
	AvatarID  string    `json:"avatar_id" gorm:"size:40"`
	Status    string    `json:"status" gorm:"size:20;default:Active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// UserCompact is the public profile shape embedded in denormalized responses.
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	AvatarID string `json:"avatar_id"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		AvatarID: u.AvatarID,
	}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarID string `json:"avatar_id,omitempty" validate:"omitempty,max=40"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
