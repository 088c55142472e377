package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/models"
	"rfp-portal/internal/repository"
)

// DraftHandler exposes the draft store at the HTTP boundary: load, replace,
// discard. The wizard uses these semantics internally; the endpoints exist so
// a client can also save and restore drafts directly.
type DraftHandler struct {
	drafts *repository.DraftStore
}

func NewDraftHandler(drafts *repository.DraftStore) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Get returns the caller's draft. Absence is a 404 with code NotFound, which
// clients treat as "start fresh", not as a failure.
func (h *DraftHandler) Get(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	draft, err := h.drafts.Load(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    draft,
	})
}

// Save replaces the caller's draft wholesale.
func (h *DraftHandler) Save(c *gin.Context) {
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

	draft, err := h.drafts.Save(c.Request.Context(), vendorID, content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"last_saved_at": draft.LastSavedAt,
	})
}

// Delete discards the caller's draft. Idempotent: deleting an absent draft
// succeeds.
func (h *DraftHandler) Delete(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.drafts.Delete(c.Request.Context(), vendorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
