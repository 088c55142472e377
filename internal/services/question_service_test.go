package services

import (
	"errors"
	"testing"

	"rfp-portal/internal/models"
)

func TestQuestionAskAndAnswer(t *testing.T) {
	service := NewQuestionService(setupTestDB(t))

	question, err := service.Ask(1, "Is multi-region deployment in scope?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	open, err := service.ListAll(true)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("got %d open questions, want 1", len(open))
	}

	answered, err := service.Answer(question.ID, 7, "Yes, see section 3 of the RFP.")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answered.AnsweredAt == nil || answered.AnsweredBy == nil || *answered.AnsweredBy != 7 {
		t.Errorf("answer metadata missing: %+v", answered)
	}

	open, err = service.ListAll(true)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("answered question still listed as open")
	}

	mine, err := service.ListForVendor(1)
	if err != nil {
		t.Fatalf("ListForVendor failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Answer == "" {
		t.Errorf("vendor does not see the answer: %+v", mine)
	}
}

func TestAnswerMissingQuestion(t *testing.T) {
	service := NewQuestionService(setupTestDB(t))

	_, err := service.Answer(42, 7, "answering nothing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestAskEmptyBody(t *testing.T) {
	service := NewQuestionService(setupTestDB(t))

	_, err := service.Ask(1, "")
	if !errors.Is(err, models.ErrValidationFailed) {
		t.Errorf("want ErrValidationFailed, got %v", err)
	}
}
