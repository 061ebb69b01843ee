// Package models contains data structures for the application's domain models.
package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Media attachment kinds accepted on a comment.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MaxMentionsPerComment caps the mention list stored with a comment.
const MaxMentionsPerComment = 20

// Comment represents a comment in a post's reply tree.
//
// ParentID is nil for a top-level comment. RootID points at the top-level
// ancestor of the thread: it equals the parent's RootID when the parent has
// one, otherwise the parent's own ID. Both are fixed at creation and never
// change on edit.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;index:idx_comments_post_parent" json:"post_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"type:text" json:"content"`

	MediaType string `json:"-"`
	MediaURL  string `json:"-"`
	MediaMeta string `gorm:"type:text" json:"-"`

	ParentID *uint `gorm:"index:idx_comments_post_parent" json:"parent_id,omitempty"`
	RootID   *uint `gorm:"index" json:"root_id,omitempty"`

	Mentions []CommentMention `gorm:"foreignKey:CommentID" json:"mentions"`

	// Computed per request, never persisted.
	Media      *CommentMedia `gorm:"-" json:"media"`
	ReplyCount int64         `gorm:"-" json:"reply_count"`
	LikeCount  int64         `gorm:"-" json:"like_count"`
	Liked      bool          `gorm:"-" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentMedia is the response shape of a comment's media attachment.
type CommentMedia struct {
	Type     string          `json:"type"`
	URL      string          `json:"url"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// HasMedia reports whether the comment carries an attachment.
func (c *Comment) HasMedia() bool {
	return c.MediaURL != ""
}

// NormalizeMedia fills the computed Media field from the stored columns.
// Media stays nil when the comment has no attachment.
func (c *Comment) NormalizeMedia() {
	if !c.HasMedia() {
		c.Media = nil
		return
	}
	c.Media = &CommentMedia{Type: c.MediaType, URL: c.MediaURL}
	if c.MediaMeta != "" {
		c.Media.Metadata = json.RawMessage(c.MediaMeta)
	}
}

// CommentMention is one entry of a comment's mention list. UserID is set only
// when the client attached one; handles scanned out of the content carry no
// user ID because the extractor never consults the user directory.
type CommentMention struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	CommentID uint   `gorm:"not null;uniqueIndex:idx_mention_comment_username" json:"-"`
	Username  string `gorm:"size:30;not null;uniqueIndex:idx_mention_comment_username" json:"username"`
	UserID    *uint  `json:"user_id,omitempty"`
	Position  int    `gorm:"not null" json:"-"`
}

// CommentPage is one page of a thread listing.
type CommentPage struct {
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
	Items   []*Comment `json:"items"`
}
