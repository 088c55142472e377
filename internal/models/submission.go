package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus is the review status of a submitted proposal. Draft state
// never appears here; draft content lives in the draft store until submit.
type SubmissionStatus string

const (
	StatusPending     SubmissionStatus = "pending"
	StatusUnderReview SubmissionStatus = "under_review"
	StatusShortlisted SubmissionStatus = "shortlisted"
	StatusApproved    SubmissionStatus = "approved"
	StatusRejected    SubmissionStatus = "rejected"
)

// AdminAction is an admin-initiated status transition request.
type AdminAction string

const (
	ActionApprove   AdminAction = "approve"
	ActionShortlist AdminAction = "shortlist"
	ActionDecline   AdminAction = "decline"
)

// ValidAdminAction reports whether a is one of the three supported actions.
func ValidAdminAction(a AdminAction) bool {
	switch a {
	case ActionApprove, ActionShortlist, ActionDecline:
		return true
	default:
		return false
	}
}

// transitions is the full admin transition table. Statuses absent from the
// outer map are terminal and accept no further actions.
var transitions = map[SubmissionStatus]map[AdminAction]SubmissionStatus{
	StatusPending: {
		ActionApprove:   StatusApproved,
		ActionShortlist: StatusShortlisted,
		ActionDecline:   StatusRejected,
	},
	StatusUnderReview: {
		ActionApprove:   StatusApproved,
		ActionShortlist: StatusShortlisted,
		ActionDecline:   StatusRejected,
	},
}

// NextStatus resolves the transition table for (from, action). Unknown
// actions fail with ErrUnsupportedAction; known actions applied to a status
// that does not accept them fail with ErrInvalidTransition. Double-applying
// an action to an already-terminal submission is deliberately an error, not a
// no-op, so the admin UI can detect double-submission.
func NextStatus(from SubmissionStatus, action AdminAction) (SubmissionStatus, error) {
	if !ValidAdminAction(action) {
		return "", fmt.Errorf("action %q: %w", action, ErrUnsupportedAction)
	}
	accepted, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("status %q is terminal: %w", from, ErrInvalidTransition)
	}
	next, ok := accepted[action]
	if !ok {
		return "", fmt.Errorf("action %q not allowed from status %q: %w", action, from, ErrInvalidTransition)
	}
	return next, nil
}

// CanEdit reports whether a vendor may still modify a submission with the
// given status. Enforced server-side on every resubmission; the client's
// displayed status can be stale.
func CanEdit(s SubmissionStatus) bool {
	return s == StatusPending || s == StatusUnderReview
}

// Submission is the authoritative, server-owned record of a vendor's
// proposal. It is created only by promoting a draft and is always in a
// non-draft status.
type Submission struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID    uint             `gorm:"not null;index" json:"vendor_id"`
	Vendor      Vendor           `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Content     ProposalContent  `gorm:"serializer:json" json:"content"`
	Status      SubmissionStatus `gorm:"size:32;not null;index" json:"status"`
	AdminNotes  string           `gorm:"type:text" json:"admin_notes"`
	SubmittedAt time.Time        `json:"submitted_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
