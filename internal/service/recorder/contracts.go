package recorder

import (
	"context"
	"time"

	"service-rider-notify/internal/domain"
)

type assignmentWriter interface {
	SetSentAt(ctx context.Context, id string, ch domain.Channel, ts time.Time) (bool, error)
	SetStatus(ctx context.Context, id string, from, to domain.AssignmentStatus) (bool, error)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type activityLog interface {
	Record(ctx context.Context, text string) error
}
