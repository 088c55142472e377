package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rfp-portal/internal/models"
)

// SubmissionRepository is the server-side store of submitted proposals.
type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create stores a newly promoted submission.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("creating submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching submission %s: %w", id, err)
	}
	return &submission, nil
}

// GetByVendor returns the vendor's submission, if any. The portal runs a
// single RFP, so a vendor has at most one.
func (r *SubmissionRepository) GetByVendor(ctx context.Context, vendorID uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("submitted_at DESC").First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission for vendor %d: %w", vendorID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching submission for vendor %d: %w", vendorID, err)
	}
	return &submission, nil
}

// Resubmit replaces an editable submission's content and resets its status
// to pending so review restarts, regardless of the prior sub-status.
func (r *SubmissionRepository) Resubmit(ctx context.Context, id uuid.UUID, content models.ProposalContent, submittedAt time.Time) (*models.Submission, error) {
	submission, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	submission.Content = content
	submission.Status = models.StatusPending
	submission.SubmittedAt = submittedAt
	submission.ReviewedAt = nil
	submission.AdminNotes = ""
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return nil, fmt.Errorf("resubmitting submission %s: %w", id, err)
	}
	return submission, nil
}

// UpdateStatus persists a review transition: new status, notes, and the
// transition timestamp.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, notes string, reviewedAt time.Time) (*models.Submission, error) {
	submission, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	submission.Status = status
	submission.AdminNotes = notes
	submission.ReviewedAt = &reviewedAt
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return nil, fmt.Errorf("updating status of submission %s: %w", id, err)
	}
	return submission, nil
}

// ListByVendor returns all submissions owned by a vendor, newest first.
func (r *SubmissionRepository) ListByVendor(ctx context.Context, vendorID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("listing submissions for vendor %d: %w", vendorID, err)
	}
	return submissions, nil
}

// ListAll returns submissions portal-wide for the admin dashboard, optionally
// filtered by status.
func (r *SubmissionRepository) ListAll(ctx context.Context, status models.SubmissionStatus, limit, offset int) ([]models.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting submissions: %w", err)
	}

	var submissions []models.Submission
	err := query.
		Preload("Vendor").
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing submissions: %w", err)
	}
	return submissions, total, nil
}

// CountByStatus returns submission counts grouped by status.
func (r *SubmissionRepository) CountByStatus(ctx context.Context) (map[models.SubmissionStatus]int64, error) {
	type row struct {
		Status models.SubmissionStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting submissions by status: %w", err)
	}
	counts := make(map[models.SubmissionStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
