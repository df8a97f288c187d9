package kafka

import (
	"strings"
	"time"

	"service-rider-notify/internal/domain"
)

// Command asks the worker to notify one assignment.
type Command struct {
	AssignmentID string
	Channel      domain.Channel
	RequestedAt  time.Time
}

// CommandDTO is the wire form of a dispatch command.
type CommandDTO struct {
	AssignmentID string    `json:"assignment_id"`
	Channel      string    `json:"channel"`
	RequestedAt  time.Time `json:"requested_at"`
}

// ToCommand converts CommandDTO to a Command. A missing channel means
// both.
func ToCommand(dto CommandDTO) Command {
	ch := domain.Channel(strings.TrimSpace(dto.Channel))
	if ch == "" {
		ch = domain.ChannelBoth
	}
	return Command{
		AssignmentID: strings.TrimSpace(dto.AssignmentID),
		Channel:      ch,
		RequestedAt:  dto.RequestedAt,
	}
}
