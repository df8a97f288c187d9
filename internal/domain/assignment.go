package domain

import "time"

// Assignment - struct representing a scheduled escort task bound to one
// rider and one request. Created and deleted by the external scheduler;
// this engine mutates only the notification fields and, via inbound
// replies, the status.
type Assignment struct {
	ID            string
	RequestID     string
	RiderName     string
	EventDate     time.Time
	StartTime     string
	EndTime       string
	StartLocation string
	EndLocation   string
	Status        AssignmentStatus
	NotifiedAt    *time.Time
	SMSSentAt     *time.Time
	EmailSentAt   *time.Time
}

// NotifiedOnAny reports whether any channel has a sent timestamp.
func (a Assignment) NotifiedOnAny() bool {
	return a.SMSSentAt != nil || a.EmailSentAt != nil
}

// NotificationStats - aggregate counters exposed to the dashboard
// collaborator.
type NotificationStats struct {
	TotalEligible  int `json:"total_eligible"`
	Pending        int `json:"pending"`
	SentTodaySMS   int `json:"sent_today_sms"`
	SentTodayEmail int `json:"sent_today_email"`
}

// SendResult - struct representing the outcome of a single-recipient send.
type SendResult struct {
	AssignmentID string
	Channel      Channel
	Success      bool
	ExternalID   string
	Error        string
	SentAt       time.Time
}
