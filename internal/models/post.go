// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Ripple application. Only the fields the
// comment subsystem depends on are modeled here: ownership, the
// allow-comments switch, and the persisted comment-count aggregate.
type Post struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	User          User   `gorm:"foreignKey:UserID" json:"user"`
	Caption       string `gorm:"type:text" json:"caption"`
	AllowComments bool   `gorm:"not null;default:true" json:"allow_comments"`
	// CommentsCount is a persisted aggregate. It is adjusted inside the same
	// transaction as the comment mutation it reflects.
	CommentsCount int64          `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
