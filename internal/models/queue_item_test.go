package models

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusPosted},
		{StatusApproved, StatusPosted},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusPending},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusPosted},
		{StatusRejected, StatusPending},
		{StatusPosted, StatusApproved},
		{StatusPosted, StatusRejected},
		{StatusPosted, StatusPending},
		{StatusPending, StatusPending},
		{"bogus", StatusApproved},
	}
	for _, tt := range denied {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%q, %q) = true, want false", tt.from, tt.to)
		}
	}
}
