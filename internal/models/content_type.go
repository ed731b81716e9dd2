package models

import "strings"

// ContentType is the closed set of content kinds shared by posts and stories.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
)

func (ct ContentType) String() string { return string(ct) }

func (ct ContentType) IsValid() bool {
	return ct == ContentTypeText || ct == ContentTypeImage || ct == ContentTypeVideo
}

// ValidateContent applies the one shared rule for content payloads: text needs
// a non-empty body, image/video need a media reference.
func (ct ContentType) ValidateContent(content, mediaID string) bool {
	if !ct.IsValid() {
		return false
	}
	if ct == ContentTypeText {
		return strings.TrimSpace(content) != ""
	}
	return strings.TrimSpace(mediaID) != ""
}
