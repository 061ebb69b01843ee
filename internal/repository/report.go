package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for comment report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.CommentReport) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create files the report unless the reporter already has an open one for the
// same comment. Returns false when the earlier report absorbed this one.
func (r *reportRepository) Create(ctx context.Context, report *models.CommentReport) (bool, error) {
	var existing models.CommentReport
	err := r.db.WithContext(ctx).
		Where("reporter_id = ? AND comment_id = ? AND status = ?",
			report.ReporterID, report.CommentID, models.ReportStatusOpen).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	report.Status = models.ReportStatusOpen
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return false, err
	}
	return true, nil
}
