package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
	"rfp-portal/internal/services"
)

// SubmissionHandler serves the vendor-facing view of submissions and the
// vendor dashboard.
type SubmissionHandler struct {
	submissions *repository.SubmissionRepository
	dashboard   *services.DashboardService
}

func NewSubmissionHandler(submissions *repository.SubmissionRepository, dashboard *services.DashboardService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, dashboard: dashboard}
}

// List returns the caller's submissions with their edit-ability flags.
func (h *SubmissionHandler) List(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	submissions, err := h.submissions.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	type entry struct {
		models.Submission
		CanEdit bool `json:"can_edit"`
	}
	entries := make([]entry, len(submissions))
	for i, s := range submissions {
		entries[i] = entry{Submission: s, CanEdit: models.CanEdit(s.Status)}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

// Get returns one of the caller's submissions by id. Another vendor's
// submission is indistinguishable from a missing one.
func (h *SubmissionHandler) Get(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id", "code": "ValidationFailed"})
		return
	}

	submission, err := h.submissions.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if submission.VendorID != vendorID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found", "code": "NotFound"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     submission,
		"can_edit": models.CanEdit(submission.Status),
	})
}

// Dashboard returns the vendor's progress summary.
func (h *SubmissionHandler) Dashboard(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.dashboard.ForVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}
