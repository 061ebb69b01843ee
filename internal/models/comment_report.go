package models

import "time"

// ReportStatus is the lifecycle state of a comment report.
type ReportStatus string

const (
	// ReportStatusOpen indicates a report awaiting review.
	ReportStatusOpen ReportStatus = "open"
	// ReportStatusResolved indicates a reviewed report.
	ReportStatusResolved ReportStatus = "resolved"
)

// CommentReport is a user-filed report against a comment. A reporter gets at
// most one open report per comment; repeat submissions are no-ops.
type CommentReport struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID uint         `gorm:"not null;index" json:"reporter_id"`
	PostID     uint         `gorm:"not null" json:"post_id"`
	CommentID  uint         `gorm:"not null;index" json:"comment_id"`
	Reason     string       `gorm:"type:text;not null" json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
