package models

import "time"

// Post represents a feed post. Media lives in the object store; the post only
// carries the reference.
type Post struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"index"`
	Type      ContentType `json:"type" gorm:"size:10"`
	Content   string      `json:"content" gorm:"type:text"`
	MediaID   string      `json:"media_id" gorm:"size:40"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt time.Time   `json:"-"`
}

type CreatePostRequest struct {
	Type    string `json:"type" validate:"required,oneof=text image video"`
	Content string `json:"content" validate:"max=2000"`
	MediaID string `json:"media_id" validate:"omitempty,max=40"`
}

// PostResponse is the enriched post shape returned by read endpoints.
type PostResponse struct {
	Post
	Author        UserCompact `json:"author"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	LikedByViewer bool        `json:"liked_by_viewer"`
}
