package domain

import "testing"

func TestAssignmentStatus_CanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from AssignmentStatus
		to   AssignmentStatus
		want bool
	}{
		{StatusAssigned, StatusConfirmed, true},
		{StatusAssigned, StatusDeclined, true},
		{StatusAssigned, StatusCompleted, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusConfirmed, StatusDeclined, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAssignmentStatus_Terminal(t *testing.T) {
	t.Parallel()

	for _, s := range []AssignmentStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []AssignmentStatus{StatusAssigned, StatusConfirmed, StatusDeclined, StatusEnRoute, StatusInProgress} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
