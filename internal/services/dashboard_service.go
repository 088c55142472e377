package services

import (
	"context"
	"errors"

	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

// VendorDashboard summarizes one vendor's progress: their submission (if
// any), whether an unsubmitted draft exists, and how complete it is.
type VendorDashboard struct {
	Submission       *models.Submission `json:"submission,omitempty"`
	HasDraft         bool               `json:"has_draft"`
	DraftUnavailable bool               `json:"draft_unavailable,omitempty"`
	DraftCompletion  int                `json:"draft_completion"`
	DraftSavedAt     *string            `json:"draft_saved_at,omitempty"`
	CanEdit          bool               `json:"can_edit"`
}

// AdminDashboard aggregates portal-wide review workload.
type AdminDashboard struct {
	Counts map[models.SubmissionStatus]int64 `json:"counts"`
	Total  int64                             `json:"total"`
	Recent []models.Submission               `json:"recent"`
}

// DashboardService exposes the pull interfaces the vendor and admin
// dashboards poll. Freshness is the caller's problem; every call refetches.
type DashboardService struct {
	drafts      *repository.DraftStore
	submissions *repository.SubmissionRepository
}

func NewDashboardService(drafts *repository.DraftStore, submissions *repository.SubmissionRepository) *DashboardService {
	return &DashboardService{drafts: drafts, submissions: submissions}
}

// ForVendor builds the vendor dashboard. A draft store outage degrades the
// draft panel rather than failing the whole dashboard, but it is reported as
// DraftUnavailable, never conflated with "no draft".
func (s *DashboardService) ForVendor(ctx context.Context, vendorID uint) (*VendorDashboard, error) {
	dashboard := &VendorDashboard{}

	submission, err := s.submissions.GetByVendor(ctx, vendorID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if submission != nil {
		dashboard.Submission = submission
		dashboard.CanEdit = models.CanEdit(submission.Status)
	}

	draft, err := s.drafts.Load(ctx, vendorID)
	switch {
	case err == nil:
		dashboard.HasDraft = true
		dashboard.DraftCompletion = models.CompletionPercentage(&draft.Content)
		savedAt := draft.LastSavedAt.Format("2006-01-02T15:04:05Z07:00")
		dashboard.DraftSavedAt = &savedAt
	case errors.Is(err, models.ErrNotFound):
		// no draft yet
	case errors.Is(err, models.ErrDraftStoreUnavailable):
		dashboard.DraftUnavailable = true
	default:
		return nil, err
	}
	return dashboard, nil
}

// ForAdmin builds the admin dashboard: status counts plus the most recent
// submissions.
func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.submissions.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	recent, _, err := s.submissions.ListAll(ctx, "", 10, 0)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{Counts: counts, Total: total, Recent: recent}, nil
}
