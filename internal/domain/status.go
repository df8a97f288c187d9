package domain

// AssignmentStatus represents the status of an assignment.
type AssignmentStatus string

// List of possible assignment statuses. The scheduler owns most of the
// lifecycle; this engine only moves Assigned to Confirmed or Declined.
const (
	StatusAssigned   AssignmentStatus = "Assigned"
	StatusConfirmed  AssignmentStatus = "Confirmed"
	StatusDeclined   AssignmentStatus = "Declined"
	StatusEnRoute    AssignmentStatus = "En Route"
	StatusInProgress AssignmentStatus = "In Progress"
	StatusCompleted  AssignmentStatus = "Completed"
	StatusCancelled  AssignmentStatus = "Cancelled"
	StatusNoShow     AssignmentStatus = "No Show"
)

var allowedStatuses = [...]AssignmentStatus{
	StatusAssigned, StatusConfirmed, StatusDeclined, StatusEnRoute,
	StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow,
}

// terminalStatuses are never notified and never transition again.
var terminalStatuses = [...]AssignmentStatus{
	StatusCompleted, StatusCancelled, StatusNoShow,
}

// Valid checks if the AssignmentStatus is valid.
func (s AssignmentStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status excludes the assignment from
// further notification or reply handling.
func (s AssignmentStatus) Terminal() bool {
	for _, v := range terminalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether this engine is allowed to move an
// assignment from s to next. Only Assigned->Confirmed and
// Assigned->Declined are ours; everything else belongs to the scheduler.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	if s != StatusAssigned {
		return false
	}
	return next == StatusConfirmed || next == StatusDeclined
}
