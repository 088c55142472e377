package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Vendor{},
		&models.AdminUser{},
		&models.Draft{},
		&models.Submission{},
		&models.Question{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// newWizard wires a wizard against an in-memory database with test-sized
// autosave windows.
func newWizard(t *testing.T) (*WizardService, *repository.DraftStore, *repository.SubmissionRepository) {
	db := setupTestDB(t)
	drafts := repository.NewDraftStore(db)
	submissions := repository.NewSubmissionRepository(db)
	autosave := NewAutosaveScheduler(drafts, 10*time.Millisecond, 50*time.Millisecond)
	return NewWizardService(drafts, submissions, autosave), drafts, submissions
}

func fullDraft() models.DraftContent {
	matrix := make(map[string]models.CapabilityScore)
	for _, system := range models.IntegrationSystems {
		matrix[system] = models.CanIntegrateUnproven
	}
	setup := decimal.NewFromInt(4000)
	monthly := decimal.NewFromInt(600)
	return models.DraftContent{
		CompanyName:        "Acme Corp",
		ContactEmail:       "rfp@acme.example",
		SolutionNarrative:  "Our platform covers every requirement.",
		IntegrationMatrix:  matrix,
		TimelineWeeks:      10,
		TeamSize:           3,
		SetupFee:           &setup,
		MonthlyFee:         &monthly,
		ReferencePrimary:   models.ReferenceContact{Name: "Jo", Company: "RefCo", Email: "jo@refco.example"},
		ReferenceSecondary: models.ReferenceContact{Name: "Sam", Company: "OtherCo", Email: "sam@otherco.example"},
		FitStatement:       "We fit.",
		ConsentAccuracy:    true,
		ConsentTerms:       true,
	}
}

func TestFirstAdvanceSavesExactlyEnteredFields(t *testing.T) {
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	state, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, state.Mode)
	assert.Equal(t, 1, state.CurrentStep)

	// Vendor with no prior draft fills only company name and email on step 1.
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{
		CompanyName:  "Acme Corp",
		ContactEmail: "rfp@acme.example",
	})
	require.NoError(t, err)

	state, err = wizard.Advance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStep)

	// Advance forced an immediate save with exactly those two fields.
	draft, err := drafts.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", draft.Content.CompanyName)
	assert.Equal(t, "rfp@acme.example", draft.Content.ContactEmail)
	assert.Empty(t, draft.Content.SolutionNarrative)
	assert.Empty(t, draft.Content.IntegrationMatrix)
	assert.False(t, draft.Content.ConsentTerms)
}

func TestFirstStepEditsDoNotAutosave(t *testing.T) {
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)

	// Typing on step 1 stays in memory: no debounced save fires.
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{
		CompanyName:  "Acme Corp",
		ContactEmail: "rfp@acme.example",
	})
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	_, err = drafts.Load(ctx, 1)
	require.ErrorIs(t, err, models.ErrNotFound)

	// Past the first step the same edit does get debounced to the store.
	_, err = wizard.Advance(ctx, 1)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{
		CompanyName: "Acme Corp", ContactEmail: "rfp@acme.example", SolutionNarrative: "typed on step 2",
	})
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	draft, err := drafts.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "typed on step 2", draft.Content.SolutionNarrative)
}

func TestAdvanceGatedOnRequiredFields(t *testing.T) {
	wizard, _, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{CompanyName: "Acme Corp"})
	require.NoError(t, err)

	_, err = wizard.Advance(ctx, 1)
	require.ErrorIs(t, err, models.ErrValidationFailed)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, string(models.FieldContactEmail), verr.Fields[0].Field)

	state, err := wizard.State(1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep, "failed advance must not move the step")
}

func TestStartHydratesFromSavedDraft(t *testing.T) {
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	_, err := drafts.Save(ctx, 1, models.DraftContent{CompanyName: "Saved Co", SolutionNarrative: "resume me"})
	require.NoError(t, err)

	state, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Saved Co", state.Content.CompanyName)
	assert.Equal(t, "resume me", state.Content.SolutionNarrative)
	assert.NotNil(t, state.LastSavedAt)
}

func TestRetreatAlwaysAllowedAndSaves(t *testing.T) {
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{CompanyName: "Acme", ContactEmail: "a@b.example"})
	require.NoError(t, err)
	_, err = wizard.Advance(ctx, 1)
	require.NoError(t, err)

	// Edit something on step 2, then go back: the edit must be persisted.
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{
		CompanyName: "Acme", ContactEmail: "a@b.example", SolutionNarrative: "in-flight edit",
	})
	require.NoError(t, err)

	state, err := wizard.Retreat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep)

	draft, err := drafts.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "in-flight edit", draft.Content.SolutionNarrative)

	// Retreat from the first step stays clamped at 1.
	state, err = wizard.Retreat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep)
}

func TestAdvanceClampsAtFinalStep(t *testing.T) {
	wizard, _, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, fullDraft())
	require.NoError(t, err)

	var state *WizardState
	for i := 0; i < 6; i++ {
		state, err = wizard.Advance(ctx, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, state.CurrentStep)
}

func TestCompletionPercentageSpansAllSteps(t *testing.T) {
	wizard, _, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)

	// Filling a step-5 field from step 1 raises completion.
	state, err := wizard.SetFields(ctx, 1, models.DraftContent{FitStatement: "fits"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStep)
	assert.Greater(t, state.Completion, 0)

	state, err = wizard.SetFields(ctx, 1, fullDraft())
	require.NoError(t, err)
	assert.Equal(t, 100, state.Completion)
}

func TestSubmitCreatesPendingAndClearsDraft(t *testing.T) {
	wizard, drafts, submissions := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, fullDraft())
	require.NoError(t, err)
	_, err = wizard.SaveNow(ctx, 1)
	require.NoError(t, err)

	submission, err := wizard.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, submission.Status)
	assert.Equal(t, uint(1), submission.VendorID)
	assert.False(t, submission.SubmittedAt.IsZero())

	stored, err := submissions.GetByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", stored.Content.CompanyName)

	// Submission promotion clears the draft slot.
	_, err = drafts.Load(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The wizard instance is finished; editing again needs a fresh session.
	_, err = wizard.State(1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitRequiresBothConsents(t *testing.T) {
	wizard, _, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)

	content := fullDraft()
	content.ConsentTerms = false
	_, err = wizard.SetFields(ctx, 1, content)
	require.NoError(t, err)

	_, err = wizard.Submit(ctx, 1)
	require.ErrorIs(t, err, models.ErrValidationFailed)

	// The error names the consent that is actually missing.
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, string(models.FieldConsentTerms), verr.Fields[0].Field)

	// Both missing means both reported.
	content.ConsentAccuracy = false
	_, err = wizard.SetFields(ctx, 1, content)
	require.NoError(t, err)
	_, err = wizard.Submit(ctx, 1)
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	// Nothing was lost: the session and its working copy survive the failure.
	state, err := wizard.State(1)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", state.Content.CompanyName)
}

func TestEditModeHydratesFromSubmissionAndBypassesDrafts(t *testing.T) {
	wizard, drafts, submissions := newWizard(t)
	ctx := context.Background()

	content := fullDraft()
	promoted, err := content.Promote()
	require.NoError(t, err)
	existing := &models.Submission{
		VendorID:    1,
		Content:     *promoted,
		Status:      models.StatusUnderReview,
		SubmittedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, submissions.Create(ctx, existing))

	// A stale draft from an earlier visit must be ignored in edit mode.
	_, err = drafts.Save(ctx, 1, models.DraftContent{CompanyName: "Stale Draft Co"})
	require.NoError(t, err)

	state, err := wizard.Start(ctx, 1, &existing.ID)
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, state.Mode)
	assert.Equal(t, "Acme Corp", state.Content.CompanyName)

	// Edits in edit mode never touch the draft store.
	edited := fullDraft()
	edited.CompanyName = "Acme Corp (revised)"
	_, err = wizard.SetFields(ctx, 1, edited)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	draft, err := drafts.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Stale Draft Co", draft.Content.CompanyName)

	// Resubmission replaces content and restarts review at pending.
	submission, err := wizard.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, submission.ID)
	assert.Equal(t, models.StatusPending, submission.Status)
	assert.Equal(t, "Acme Corp (revised)", submission.Content.CompanyName)
}

func TestEditModeRejectsFrozenSubmission(t *testing.T) {
	wizard, _, submissions := newWizard(t)
	ctx := context.Background()

	content := fullDraft()
	promoted, err := content.Promote()
	require.NoError(t, err)

	for _, status := range []models.SubmissionStatus{models.StatusApproved, models.StatusShortlisted, models.StatusRejected} {
		frozen := &models.Submission{
			VendorID:    1,
			Content:     *promoted,
			Status:      status,
			SubmittedAt: time.Now(),
		}
		require.NoError(t, submissions.Create(ctx, frozen))

		_, err = wizard.Start(ctx, 1, &frozen.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition, "status %s must be frozen", status)
	}
}

func TestEditModeRejectsForeignSubmission(t *testing.T) {
	wizard, _, submissions := newWizard(t)
	ctx := context.Background()

	content := fullDraft()
	promoted, err := content.Promote()
	require.NoError(t, err)
	other := &models.Submission{VendorID: 2, Content: *promoted, Status: models.StatusPending, SubmittedAt: time.Now()}
	require.NoError(t, submissions.Create(ctx, other))

	_, err = wizard.Start(ctx, 1, &other.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDiscardDeletesDraftAndSession(t *testing.T) {
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, models.DraftContent{CompanyName: "Acme", ContactEmail: "a@b.example"})
	require.NoError(t, err)
	_, err = wizard.SaveNow(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, wizard.Discard(ctx, 1))

	_, err = drafts.Load(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = wizard.State(1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitPersistsThroughScheduler(t *testing.T) {
	// A burst of edits right before submit must not resurrect the draft
	// after the submission deleted it.
	wizard, drafts, _ := newWizard(t)
	ctx := context.Background()

	_, err := wizard.Start(ctx, 1, nil)
	require.NoError(t, err)
	_, err = wizard.SetFields(ctx, 1, fullDraft())
	require.NoError(t, err)
	_, err = wizard.Advance(ctx, 1)
	require.NoError(t, err)

	// Leave a debounce pending when Submit runs; it must be cancelled, not
	// fire into the freshly cleared slot.
	_, err = wizard.SetFields(ctx, 1, fullDraft())
	require.NoError(t, err)
	_, err = wizard.Submit(ctx, 1)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	_, err = drafts.Load(ctx, 1)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("draft resurrected after submit: %v", err)
	}
}
