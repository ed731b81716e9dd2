package models

import "time"

// Chat is an unordered pair of users, stored canonically with
// UserAID < UserBID. The unique index on the pair is the authority for
// one-chat-per-pair, including under concurrent first contact.
type Chat struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserAID   uint      `json:"user_a_id" gorm:"index;uniqueIndex:idx_chat_pair"`
	UserBID   uint      `json:"user_b_id" gorm:"index;uniqueIndex:idx_chat_pair"`
	Status    string    `json:"status" gorm:"size:20;default:Active"`
	CreatedAt time.Time `json:"created_at"`
}

// OtherUser returns the participant that is not userID.
func (c *Chat) OtherUser(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// HasParticipant reports whether userID is one of the chat's two users.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Message belongs to exactly one chat and is immutable once created.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    uint      `json:"chat_id" gorm:"index"`
	SenderID  uint      `json:"sender_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	Status    string    `json:"status" gorm:"size:20;default:Sent"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// RichMessage is a message denormalized with its sender's public profile, so
// callers don't need a second round trip.
type RichMessage struct {
	ID             uint      `json:"id"`
	ChatID         uint      `json:"chat_id"`
	SenderID       uint      `json:"sender_id"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	SenderUsername string    `json:"sender_username"`
	SenderName     string    `json:"sender_name"`
	SenderAvatarID string    `json:"sender_avatar_id"`
}

// ChatSummary is a chat annotated with the other participant's profile.
type ChatSummary struct {
	Chat
	OtherUser UserCompact `json:"other_user"`
}

type CreateChatRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
