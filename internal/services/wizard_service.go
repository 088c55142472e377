package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

// WizardMode distinguishes authoring a new proposal from revising an
// existing, still-editable submission.
type WizardMode string

const (
	ModeCreate WizardMode = "create"
	ModeEdit   WizardMode = "edit"
)

const (
	firstStep = 1
	lastStep  = 5
)

// WizardState is the wizard snapshot returned to the client after every
// operation.
type WizardState struct {
	Mode         WizardMode           `json:"mode"`
	CurrentStep  int                  `json:"current_step"`
	Completion   int                  `json:"completion_percentage"`
	Content      *models.DraftContent `json:"content"`
	SubmissionID *uuid.UUID           `json:"submission_id,omitempty"`
	LastSavedAt  *time.Time           `json:"last_saved_at,omitempty"`
	Autosave     SaveStatus           `json:"autosave"`
}

// wizardSession is one vendor's in-memory working copy. The server holds one
// live session per vendor; a second tab shares it, which matches the draft
// store's documented last-write-wins behavior.
type wizardSession struct {
	mode         WizardMode
	submissionID *uuid.UUID
	currentStep  int
	working      models.DraftContent
	lastSavedAt  *time.Time
}

// WizardService owns the five-step proposal form: per-step validation,
// navigation, draft hydration, and the final promotion of a draft into a
// pending submission.
type WizardService struct {
	drafts      *repository.DraftStore
	submissions *repository.SubmissionRepository
	autosave    *AutosaveScheduler

	mu       sync.Mutex
	sessions map[uint]*wizardSession
}

func NewWizardService(drafts *repository.DraftStore, submissions *repository.SubmissionRepository, autosave *AutosaveScheduler) *WizardService {
	return &WizardService{
		drafts:      drafts,
		submissions: submissions,
		autosave:    autosave,
		sessions:    make(map[uint]*wizardSession),
	}
}

// Start opens a wizard session. With a submission id the wizard enters edit
// mode: the submission is fetched, ownership and edit-ability are checked
// server-side, and the draft store is bypassed entirely. Without one it
// enters create mode and hydrates from the vendor's saved draft when present.
// A draft store outage is surfaced, never treated as "no draft".
func (s *WizardService) Start(ctx context.Context, vendorID uint, submissionID *uuid.UUID) (*WizardState, error) {
	session := &wizardSession{mode: ModeCreate, currentStep: firstStep}

	if submissionID != nil {
		submission, err := s.submissions.GetByID(ctx, *submissionID)
		if err != nil {
			return nil, err
		}
		if submission.VendorID != vendorID {
			return nil, fmt.Errorf("submission %s: %w", submissionID, models.ErrNotFound)
		}
		if !models.CanEdit(submission.Status) {
			return nil, fmt.Errorf("submission %s has status %q and is frozen: %w",
				submissionID, submission.Status, models.ErrInvalidTransition)
		}
		session.mode = ModeEdit
		session.submissionID = submissionID
		session.working = *submission.Content.Partial()
	} else {
		draft, err := s.drafts.Load(ctx, vendorID)
		switch {
		case err == nil:
			session.working = draft.Content
			savedAt := draft.LastSavedAt
			session.lastSavedAt = &savedAt
		case errors.Is(err, models.ErrNotFound):
			// first visit, start from an empty form
		default:
			return nil, err
		}
	}

	s.mu.Lock()
	s.sessions[vendorID] = session
	s.mu.Unlock()
	return s.snapshot(vendorID, session), nil
}

// SetFields replaces the session's working copy with the client's latest
// edits. In create mode, past the first step, this feeds the debounced
// autosave; first-step typing stays in memory until the forced save on the
// first advance. In edit mode the draft store is not touched and changes
// persist only on submit.
func (s *WizardService) SetFields(ctx context.Context, vendorID uint, content models.DraftContent) (*WizardState, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	session.working = content
	mode := session.mode
	step := session.currentStep
	s.mu.Unlock()

	if mode == ModeCreate && step > firstStep {
		s.autosave.NoteChange(vendorID, content)
	}
	return s.snapshot(vendorID, session), nil
}

// Advance moves forward one step, clamped at the final step. It is gated on
// the current step's required fields; on success it forces an immediate draft
// save, superseding any pending debounce, so navigation never loses edits.
func (s *WizardService) Advance(ctx context.Context, vendorID uint) (*WizardState, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	step := session.currentStep
	working := session.working
	mode := session.mode
	s.mu.Unlock()

	var verr models.ValidationError
	for _, f := range models.RequiredForStep(step) {
		if !f.Present(&working) {
			verr.Fields = append(verr.Fields, models.FieldError{Field: string(f.ID), Message: f.Missing})
		}
	}
	if len(verr.Fields) > 0 {
		return nil, &verr
	}

	if mode == ModeCreate {
		if err := s.autosave.Flush(ctx, vendorID, working); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	if session.currentStep < lastStep {
		session.currentStep++
	}
	s.mu.Unlock()
	return s.snapshot(vendorID, session), nil
}

// Retreat moves back one step. It is always permitted above the first step
// and also forces an immediate save first, so backward navigation never
// discards in-flight edits.
func (s *WizardService) Retreat(ctx context.Context, vendorID uint) (*WizardState, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	working := session.working
	mode := session.mode
	s.mu.Unlock()

	if mode == ModeCreate {
		if err := s.autosave.Flush(ctx, vendorID, working); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	if session.currentStep > firstStep {
		session.currentStep--
	}
	s.mu.Unlock()
	return s.snapshot(vendorID, session), nil
}

// SaveNow is the explicit "Save Draft" action: an immediate flush of the
// working copy, superseding any pending debounce.
func (s *WizardService) SaveNow(ctx context.Context, vendorID uint) (*WizardState, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	working := session.working
	mode := session.mode
	s.mu.Unlock()

	if mode == ModeCreate {
		if err := s.autosave.Flush(ctx, vendorID, working); err != nil {
			return nil, err
		}
	}
	return s.snapshot(vendorID, session), nil
}

// Submit promotes the working copy into a pending submission. Both final-step
// consents must be true and the full required-field list must validate; in
// edit mode edit-ability is re-checked against the stored record, not the
// client's view. On repository success the vendor's draft is deleted
// best-effort: a stale draft is harmless, a failed submission is not. On
// failure the session survives untouched so nothing needs re-entering.
func (s *WizardService) Submit(ctx context.Context, vendorID uint) (*models.Submission, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	working := session.working
	mode := session.mode
	submissionID := session.submissionID
	s.mu.Unlock()

	var consentErr models.ValidationError
	if !working.ConsentAccuracy {
		consentErr.Fields = append(consentErr.Fields, models.FieldError{
			Field: string(models.FieldConsentAccuracy), Message: "accuracy consent is required before submitting",
		})
	}
	if !working.ConsentTerms {
		consentErr.Fields = append(consentErr.Fields, models.FieldError{
			Field: string(models.FieldConsentTerms), Message: "terms consent is required before submitting",
		})
	}
	if len(consentErr.Fields) > 0 {
		return nil, &consentErr
	}

	content, err := working.Promote()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var submission *models.Submission
	if mode == ModeEdit && submissionID != nil {
		stored, err := s.submissions.GetByID(ctx, *submissionID)
		if err != nil {
			return nil, err
		}
		if stored.VendorID != vendorID {
			return nil, fmt.Errorf("submission %s: %w", submissionID, models.ErrNotFound)
		}
		if !models.CanEdit(stored.Status) {
			return nil, fmt.Errorf("submission %s has status %q and is frozen: %w",
				submissionID, stored.Status, models.ErrInvalidTransition)
		}
		submission, err = s.submissions.Resubmit(ctx, *submissionID, *content, now)
		if err != nil {
			return nil, err
		}
	} else {
		submission = &models.Submission{
			VendorID:    vendorID,
			Content:     *content,
			Status:      models.StatusPending,
			SubmittedAt: now,
		}
		if err := s.submissions.Create(ctx, submission); err != nil {
			return nil, err
		}
	}

	// Cancel any pending debounce before deleting the draft so a timer firing
	// mid-cleanup cannot re-save it.
	s.autosave.Forget(vendorID)
	if err := s.drafts.Delete(ctx, vendorID); err != nil {
		log.Printf("draft cleanup after submission %s failed (stale draft left behind): %v", submission.ID, err)
	}

	s.mu.Lock()
	delete(s.sessions, vendorID)
	s.mu.Unlock()
	return submission, nil
}

// Discard drops the vendor's draft and wizard session.
func (s *WizardService) Discard(ctx context.Context, vendorID uint) error {
	s.autosave.Forget(vendorID)
	if err := s.drafts.Delete(ctx, vendorID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, vendorID)
	s.mu.Unlock()
	return nil
}

// State returns the current wizard snapshot without mutating anything.
func (s *WizardService) State(vendorID uint) (*WizardState, error) {
	s.mu.Lock()
	session, ok := s.sessions[vendorID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("wizard session for vendor %d: %w", vendorID, models.ErrNotFound)
	}
	return s.snapshot(vendorID, session), nil
}

func (s *WizardService) snapshot(vendorID uint, session *wizardSession) *WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := session.working
	state := &WizardState{
		Mode:         session.mode,
		CurrentStep:  session.currentStep,
		Completion:   models.CompletionPercentage(&working),
		Content:      &working,
		SubmissionID: session.submissionID,
		LastSavedAt:  session.lastSavedAt,
	}
	if session.mode == ModeCreate {
		status := s.autosave.Status(vendorID)
		state.Autosave = status
		if status.LastSavedAt != nil {
			state.LastSavedAt = status.LastSavedAt
		}
	} else {
		state.Autosave = SaveStatus{State: SaveIdle}
	}
	return state
}
