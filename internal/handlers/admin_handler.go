package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
	"rfp-portal/internal/services"
)

// AdminHandler serves the review workflow: the portal-wide submission list,
// opening a submission for review, and applying approve/shortlist/decline
// actions.
type AdminHandler struct {
	submissions *repository.SubmissionRepository
	review      *services.ReviewService
	dashboard   *services.DashboardService
}

func NewAdminHandler(submissions *repository.SubmissionRepository, review *services.ReviewService, dashboard *services.DashboardService) *AdminHandler {
	return &AdminHandler{submissions: submissions, review: review, dashboard: dashboard}
}

// ListSubmissions returns submissions portal-wide, optionally filtered by
// status. Admin clients poll this for freshness.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := models.SubmissionStatus(c.Query("status"))

	submissions, total, err := h.submissions.ListAll(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submissions,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetSubmission opens a submission for review; a pending one moves to under
// review as a side effect.
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id", "code": "ValidationFailed"})
		return
	}

	submission, err := h.review.Open(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submission,
	})
}

// ApplyAction applies approve, shortlist, or decline with optional notes. A
// transition error is authoritative: the client must refresh its view of the
// submission's true status.
func (h *AdminHandler) ApplyAction(c *gin.Context) {
	adminID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id", "code": "ValidationFailed"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	updated, err := h.review.Apply(c.Request.Context(), id, models.AdminAction(req.Action), req.Notes, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// Dashboard returns portal-wide review workload counts.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboard.ForAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}
