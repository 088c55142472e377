package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/models"
	"rfp-portal/internal/services"
)

// WizardHandler drives the five-step proposal form over HTTP.
type WizardHandler struct {
	wizard *services.WizardService
}

func NewWizardHandler(wizard *services.WizardService) *WizardHandler {
	return &WizardHandler{wizard: wizard}
}

// Start opens a wizard session; pass submission_id to revise an existing,
// still-editable submission.
func (h *WizardHandler) Start(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		SubmissionID string `json:"submission_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	var submissionID *uuid.UUID
	if req.SubmissionID != "" {
		id, err := uuid.Parse(req.SubmissionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id", "code": "ValidationFailed"})
			return
		}
		submissionID = &id
	}

	state, err := h.wizard.Start(c.Request.Context(), vendorID, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// State returns the current wizard snapshot, including the autosave status
// indicator.
func (h *WizardHandler) State(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.wizard.State(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// SetFields replaces the working copy with the client's latest edits and arms
// the debounced autosave.
func (h *WizardHandler) SetFields(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var content models.DraftContent
	if err := c.ShouldBindJSON(&content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	state, err := h.wizard.SetFields(c.Request.Context(), vendorID, content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// Advance moves to the next step after the current step's required fields
// pass.
func (h *WizardHandler) Advance(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.wizard.Advance(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// Retreat moves back one step.
func (h *WizardHandler) Retreat(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.wizard.Retreat(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// Save is the explicit "Save Draft" button.
func (h *WizardHandler) Save(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	state, err := h.wizard.SaveNow(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state,
	})
}

// Submit promotes the working copy into a pending submission.
func (h *WizardHandler) Submit(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	submission, err := h.wizard.Submit(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    submission,
	})
}

// Discard deletes the draft and closes the wizard session.
func (h *WizardHandler) Discard(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.wizard.Discard(c.Request.Context(), vendorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
