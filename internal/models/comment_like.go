package models

import "time"

// CommentLike represents a user's like on a comment.
// The combination of CommentID and UserID must be unique; the constraint is
// the only mechanism preventing duplicate likes under concurrent toggles.
// Rows are hard-deleted on unlike and when the comment's subtree is deleted.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
