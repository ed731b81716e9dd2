package models

import "time"

// Story is ephemeral content. A story is active iff now < ExpiresAt; expired
// rows stay invisible to every read path until the cleanup job purges them.
type Story struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"index"`
	Type      ContentType `json:"type" gorm:"size:10"`
	Content   string      `json:"content" gorm:"type:text"`
	MediaID   string      `json:"media_id" gorm:"size:40"`
	ExpiresAt time.Time   `json:"expires_at" gorm:"index"`
	CreatedAt time.Time   `json:"created_at"`
}

// StoryLike is a pure toggle, unique per (story, user).
type StoryLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_user_like"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_story_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryReaction is an upsert per (story, user); a second reaction overwrites
// the first's label and timestamp.
type StoryReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_user_reaction"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_story_user_reaction"`
	Reaction  string    `json:"reaction" gorm:"size:40"`
	CreatedAt time.Time `json:"created_at"`
}

// StorySeen tracks which stories a user has viewed.
type StorySeen struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	StoryID uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_user_seen"`
	UserID  uint      `json:"user_id" gorm:"index;uniqueIndex:idx_story_user_seen"`
	SeenAt  time.Time `json:"seen_at"`
}

// MediaTombstone records a remote media object whose story row is gone but
// whose object delete has not succeeded yet. Drained by the cleanup job.
type MediaTombstone struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MediaID   string    `json:"media_id" gorm:"size:40;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateStoryRequest struct {
	Type    string `json:"type" validate:"required,oneof=text image video"`
	Content string `json:"content" validate:"max=2000"`
	MediaID string `json:"media_id" validate:"omitempty,max=40"`
}

type ReactToStoryRequest struct {
	Reaction string `json:"reaction" validate:"required,min=1,max=40"`
}

// StoryResponse is the enriched story shape.
type StoryResponse struct {
	Story
	Author UserCompact `json:"author"`
	Seen   bool        `json:"seen"`
}
