package models

import "time"

// Notification types created by other flows.
const (
	NotificationTypeFollow        = "follow"
	NotificationTypeLike          = "like"
	NotificationTypeComment       = "comment"
	NotificationTypeStoryReaction = "story_reaction"
)

// Notification represents a user notification.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PostID      uint      `json:"post_id,omitempty"`
	StoryID     uint      `json:"story_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
