package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rfp-portal/internal/models"
)

// respondError maps the portal's error taxonomy onto HTTP statuses and a
// stable wire-level code. Validation failures additionally carry the
// per-field messages so the client can point at the offending input.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  verr.Error(),
			"code":   "ValidationFailed",
			"fields": verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NotFound"})
	case errors.Is(err, models.ErrUnsupportedAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "UnsupportedAction"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "InvalidTransition"})
	case errors.Is(err, models.ErrDraftStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "DraftStoreUnavailable"})
	case errors.Is(err, models.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
