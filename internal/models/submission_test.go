package models

import (
	"errors"
	"testing"
)

func TestNextStatusTable(t *testing.T) {
	allStatuses := []SubmissionStatus{StatusPending, StatusUnderReview, StatusShortlisted, StatusApproved, StatusRejected}
	allActions := []AdminAction{ActionApprove, ActionShortlist, ActionDecline}

	expected := map[AdminAction]SubmissionStatus{
		ActionApprove:   StatusApproved,
		ActionShortlist: StatusShortlisted,
		ActionDecline:   StatusRejected,
	}

	for _, status := range allStatuses {
		for _, action := range allActions {
			next, err := NextStatus(status, action)
			if status == StatusPending || status == StatusUnderReview {
				if err != nil {
					t.Errorf("NextStatus(%s, %s): unexpected error %v", status, action, err)
					continue
				}
				if next != expected[action] {
					t.Errorf("NextStatus(%s, %s) = %s, want %s", status, action, next, expected[action])
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("NextStatus(%s, %s): want ErrInvalidTransition, got %v", status, action, err)
				}
			}
		}
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	_, err := NextStatus(StatusPending, AdminAction("escalate"))
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("want ErrUnsupportedAction, got %v", err)
	}

	// Unknown action on a terminal status is still unsupported, not a
	// transition problem.
	_, err = NextStatus(StatusApproved, AdminAction(""))
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("want ErrUnsupportedAction, got %v", err)
	}
}

func TestCanEdit(t *testing.T) {
	cases := map[SubmissionStatus]bool{
		StatusPending:     true,
		StatusUnderReview: true,
		StatusShortlisted: false,
		StatusApproved:    false,
		StatusRejected:    false,
	}
	for status, want := range cases {
		if got := CanEdit(status); got != want {
			t.Errorf("CanEdit(%s) = %v, want %v", status, got, want)
		}
	}
	if CanEdit(SubmissionStatus("draft")) {
		t.Error("CanEdit should be false for unknown statuses")
	}
}
