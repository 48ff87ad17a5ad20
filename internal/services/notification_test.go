package services

import (
	"testing"
)

func uintPtr(v uint) *uint { return &v }

func TestCommentRecipients_ExcludesAuthor(t *testing.T) {
	recipients := CommentRecipients(uintPtr(2), []uint{1, 2, 3}, 1)

	for _, id := range recipients {
		if id == 1 {
			t.Error("author should not receive a notification")
		}
	}
}

func TestCommentRecipients_DeduplicatesAssignee(t *testing.T) {
	// Assignee 2 is also a member; they should appear once
	recipients := CommentRecipients(uintPtr(2), []uint{1, 2, 3}, 1)

	count := 0
	for _, id := range recipients {
		if id == 2 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("assignee should appear exactly once, got %d times", count)
	}
	if len(recipients) != 2 {
		t.Errorf("expected 2 recipients, got %d: %v", len(recipients), recipients)
	}
}

func TestCommentRecipients_NoAssignee(t *testing.T) {
	recipients := CommentRecipients(nil, []uint{1, 2, 3}, 2)

	if len(recipients) != 2 {
		t.Errorf("expected 2 recipients, got %d: %v", len(recipients), recipients)
	}
	for _, id := range recipients {
		if id == 2 {
			t.Error("author should be excluded")
		}
	}
}

func TestCommentRecipients_AssigneeIsAuthor(t *testing.T) {
	recipients := CommentRecipients(uintPtr(5), []uint{5, 6}, 5)

	if len(recipients) != 1 || recipients[0] != 6 {
		t.Errorf("expected only member 6, got %v", recipients)
	}
}

func TestCommentRecipients_Empty(t *testing.T) {
	recipients := CommentRecipients(nil, nil, 1)
	if len(recipients) != 0 {
		t.Errorf("expected no recipients, got %v", recipients)
	}
}

func TestCommentRecipients_AssigneeNotMember(t *testing.T) {
	// Assignee outside the member list still gets notified
	recipients := CommentRecipients(uintPtr(9), []uint{1, 2}, 1)

	found := false
	for _, id := range recipients {
		if id == 9 {
			found = true
		}
	}
	if !found {
		t.Errorf("assignee should be included, got %v", recipients)
	}
	if len(recipients) != 2 {
		t.Errorf("expected 2 recipients, got %v", recipients)
	}
}
