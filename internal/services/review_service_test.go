package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

func newReview(t *testing.T) (*ReviewService, *repository.SubmissionRepository) {
	submissions := repository.NewSubmissionRepository(setupTestDB(t))
	return NewReviewService(submissions), submissions
}

func seedSubmission(t *testing.T, submissions *repository.SubmissionRepository, status models.SubmissionStatus) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		VendorID:    1,
		Status:      status,
		SubmittedAt: time.Now().Add(-time.Hour),
	}
	if err := submissions.Create(context.Background(), submission); err != nil {
		t.Fatalf("seeding submission failed: %v", err)
	}
	return submission
}

func TestApplyApproveWithNotes(t *testing.T) {
	review, submissions := newReview(t)
	ctx := context.Background()
	submission := seedSubmission(t, submissions, models.StatusUnderReview)

	updated, err := review.Apply(ctx, submission.ID, models.ActionApprove, "Looks good", 7)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("status = %s, want approved", updated.Status)
	}
	if updated.AdminNotes != "Looks good" {
		t.Errorf("notes = %q", updated.AdminNotes)
	}
	if updated.ReviewedAt == nil {
		t.Error("transition timestamp missing")
	}

	// A second approve on the now-terminal record is an error, not a no-op:
	// the admin UI uses this to detect a double-click.
	_, err = review.Apply(ctx, submission.ID, models.ActionApprove, "again", 7)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("double apply: want ErrInvalidTransition, got %v", err)
	}
}

func TestApplyShortlistAndDecline(t *testing.T) {
	review, submissions := newReview(t)
	ctx := context.Background()

	shortlisted := seedSubmission(t, submissions, models.StatusPending)
	updated, err := review.Apply(ctx, shortlisted.ID, models.ActionShortlist, "strong option", 7)
	if err != nil {
		t.Fatalf("shortlist failed: %v", err)
	}
	if updated.Status != models.StatusShortlisted {
		t.Errorf("status = %s, want shortlisted", updated.Status)
	}

	declined := seedSubmission(t, submissions, models.StatusPending)
	updated, err = review.Apply(ctx, declined.ID, models.ActionDecline, "", 7)
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if updated.Status != models.StatusRejected {
		t.Errorf("status = %s, want rejected", updated.Status)
	}
}

func TestApplyUnsupportedAction(t *testing.T) {
	review, submissions := newReview(t)
	submission := seedSubmission(t, submissions, models.StatusPending)

	_, err := review.Apply(context.Background(), submission.ID, models.AdminAction("archive"), "", 7)
	if !errors.Is(err, models.ErrUnsupportedAction) {
		t.Errorf("want ErrUnsupportedAction, got %v", err)
	}

	// Nothing changed.
	stored, err := submissions.GetByID(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("unsupported action mutated status to %s", stored.Status)
	}
}

func TestApplyMissingSubmission(t *testing.T) {
	review, _ := newReview(t)

	_, err := review.Apply(context.Background(), uuid.New(), models.ActionApprove, "", 7)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestApplyTerminalStatusesRejectEveryAction(t *testing.T) {
	review, submissions := newReview(t)
	ctx := context.Background()

	for _, status := range []models.SubmissionStatus{models.StatusApproved, models.StatusShortlisted, models.StatusRejected} {
		for _, action := range []models.AdminAction{models.ActionApprove, models.ActionShortlist, models.ActionDecline} {
			submission := seedSubmission(t, submissions, status)
			_, err := review.Apply(ctx, submission.ID, action, "", 7)
			if !errors.Is(err, models.ErrInvalidTransition) {
				t.Errorf("Apply(%s, %s): want ErrInvalidTransition, got %v", status, action, err)
			}
		}
	}
}

func TestOpenMarksPendingUnderReview(t *testing.T) {
	review, submissions := newReview(t)
	ctx := context.Background()
	submission := seedSubmission(t, submissions, models.StatusPending)

	opened, err := review.Open(ctx, submission.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened.Status != models.StatusUnderReview {
		t.Errorf("status after open = %s, want under_review", opened.Status)
	}

	// Opening again is a plain read.
	again, err := review.Open(ctx, submission.ID)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if again.Status != models.StatusUnderReview {
		t.Errorf("status after reopen = %s", again.Status)
	}
}

func TestOpenLeavesTerminalStatusAlone(t *testing.T) {
	review, submissions := newReview(t)
	submission := seedSubmission(t, submissions, models.StatusApproved)

	opened, err := review.Open(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened.Status != models.StatusApproved {
		t.Errorf("open mutated a terminal status to %s", opened.Status)
	}
}
