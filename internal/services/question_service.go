package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rfp-portal/internal/models"
)

// QuestionService is the vendor-to-admin Q&A feature: plain CRUD, clients
// poll for answers.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// Ask records a vendor question.
func (s *QuestionService) Ask(vendorID uint, body string) (*models.Question, error) {
	if body == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{
			{Field: "body", Message: "question body is required"},
		}}
	}
	question := models.Question{VendorID: vendorID, Body: body}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}
	return &question, nil
}

// ListForVendor returns the vendor's questions, newest first.
func (s *QuestionService) ListForVendor(vendorID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return questions, nil
}

// ListAll returns every question for the admin view; unansweredOnly narrows
// it to the open ones.
func (s *QuestionService) ListAll(unansweredOnly bool) ([]models.Question, error) {
	query := s.db.Preload("Vendor").Order("created_at DESC")
	if unansweredOnly {
		query = query.Where("answered_at IS NULL")
	}
	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return questions, nil
}

// Answer attaches an admin answer to an open question.
func (s *QuestionService) Answer(questionID, adminID uint, answer string) (*models.Question, error) {
	if answer == "" {
		return nil, &models.ValidationError{Fields: []models.FieldError{
			{Field: "answer", Message: "answer text is required"},
		}}
	}

	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", questionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching question: %w", err)
	}

	now := time.Now()
	question.Answer = answer
	question.AnsweredBy = &adminID
	question.AnsweredAt = &now
	if err := s.db.Save(&question).Error; err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}
	return &question, nil
}
