package domain

import "time"

// Channel represents a notification delivery path.
type Channel string

// List of possible channels. ChannelBoth expands to SMS then email,
// each counted independently.
const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelBoth  Channel = "both"
)

// Valid checks if the Channel is valid.
func (c Channel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelEmail, ChannelBoth:
		return true
	}
	return false
}

// MessageResult is the terminal state of an outbound message.
type MessageResult string

const (
	ResultSent   MessageResult = "sent"
	ResultFailed MessageResult = "failed"
)

// OutboundMessage is the tracking-log record of one send attempt.
type OutboundMessage struct {
	AssignmentID     string
	RecipientAddress string
	Channel          Channel
	Body             string
	ExternalID       string
	Result           MessageResult
	Error            string
	SentAt           time.Time
}

// InboundResponse is the tracking-log record of one rider reply.
// Appended exactly once per webhook delivery, never mutated.
type InboundResponse struct {
	FromAddress        string
	Body               string
	ReceivedAt         time.Time
	ExternalID         string
	MatchedRiderName   string
	Intent             Intent
	AssignmentAffected string
	AutoReplySent      bool
}
