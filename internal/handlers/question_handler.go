package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rfp-portal/internal/auth"
	"rfp-portal/internal/services"
)

// QuestionHandler serves vendor↔admin Q&A.
type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Ask records a vendor question.
func (h *QuestionHandler) Ask(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	question, err := h.questions.Ask(vendorID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    question,
	})
}

// ListMine returns the caller's questions; clients poll it for answers.
func (h *QuestionHandler) ListMine(c *gin.Context) {
	vendorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	questions, err := h.questions.ListForVendor(vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questions,
		"count":   len(questions),
	})
}

// ListAll returns questions portal-wide for admins; ?unanswered=true narrows
// to open ones.
func (h *QuestionHandler) ListAll(c *gin.Context) {
	unanswered := c.Query("unanswered") == "true"

	questions, err := h.questions.ListAll(unanswered)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    questions,
		"count":   len(questions),
	})
}

// Answer attaches an admin answer to a question.
func (h *QuestionHandler) Answer(c *gin.Context) {
	adminID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question id", "code": "ValidationFailed"})
		return
	}

	var req struct {
		Answer string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	question, err := h.questions.Answer(uint(questionID), adminID, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    question,
	})
}
