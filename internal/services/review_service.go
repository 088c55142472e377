package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

// ReviewService validates and applies admin-initiated status transitions.
// Every transition is checked against the stored status, never the client's
// possibly-stale view, and a repeated action on an already-terminal
// submission errors instead of silently no-opping so a double-click is
// detectable upstream.
type ReviewService struct {
	submissions *repository.SubmissionRepository
}

func NewReviewService(submissions *repository.SubmissionRepository) *ReviewService {
	return &ReviewService{submissions: submissions}
}

// Apply performs one admin action (approve, shortlist, decline) on a
// submission, attaching optional notes and stamping the transition time.
// Returns the updated record so the caller can refresh its view.
func (s *ReviewService) Apply(ctx context.Context, submissionID uuid.UUID, action models.AdminAction, notes string, adminID uint) (*models.Submission, error) {
	if !models.ValidAdminAction(action) {
		return nil, fmt.Errorf("action %q: %w", action, models.ErrUnsupportedAction)
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	next, err := models.NextStatus(submission.Status, action)
	if err != nil {
		return nil, err
	}

	updated, err := s.submissions.UpdateStatus(ctx, submissionID, next, notes, time.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("admin %d applied %s to submission %s: %s -> %s", adminID, action, submissionID, submission.Status, next)
	return updated, nil
}

// Open fetches a submission for admin review. Opening a pending submission
// marks it under review, which starts the vendor-visible review window; the
// record stays editable for the vendor either way.
func (s *ReviewService) Open(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.StatusPending {
		return submission, nil
	}
	updated, err := s.submissions.UpdateStatus(ctx, submissionID, models.StatusUnderReview, submission.AdminNotes, time.Now())
	if err != nil {
		return nil, err
	}
	return updated, nil
}
