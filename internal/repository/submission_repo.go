package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ictbranch/intake-api/internal/models"
)

// StatusCounts groups the number of submissions per review status.
type StatusCounts struct {
	Pending  int64
	Approved int64
	Rejected int64
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	ListByTypeAndStatus(ctx context.Context, formType, status string) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CountByType(ctx context.Context, formType string) (StatusCounts, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// ListByTypeAndStatus filters on both columns at the store so the full
// collection is never fetched and filtered in memory.
func (r *submissionRepository) ListByTypeAndStatus(ctx context.Context, formType, status string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("form_type = ?", formType).
		Where("status = ?", status).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// UpdateFields applies a partial column update, leaving absent fields untouched.
func (r *submissionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Submission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *submissionRepository) CountByType(ctx context.Context, formType string) (StatusCounts, error) {
	type row struct {
		Status string
		Total  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, count(*) as total").
		Where("form_type = ?", formType).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	counts := StatusCounts{}
	for _, r := range rows {
		switch r.Status {
		case models.StatusPending:
			counts.Pending = r.Total
		case models.StatusApproved:
			counts.Approved = r.Total
		case models.StatusRejected:
			counts.Rejected = r.Total
		}
	}

	return counts, nil
}
