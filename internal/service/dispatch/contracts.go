package dispatch

import (
	"context"
	"time"

	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/gateway/sms"
	"service-rider-notify/internal/repository"
)

type assignmentReader interface {
	Get(ctx context.Context, id string) (*domain.Assignment, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Assignment, error)
	Stats(ctx context.Context, now time.Time) (domain.NotificationStats, error)
}

type riderReader interface {
	FindByName(ctx context.Context, name string) (*domain.Rider, error)
}

type requestReader interface {
	Get(ctx context.Context, id string) (*domain.RequestDetails, error)
}

type smsGateway interface {
	Send(ctx context.Context, to, body string) (*sms.SendResult, error)
}

type emailGateway interface {
	Send(to, subject, body string) error
}

type messageComposer interface {
	SMS(a domain.Assignment, req domain.RequestDetails) string
	Email(a domain.Assignment, req domain.RequestDetails) (subject, body string)
}

type outboundTracker interface {
	InsertOutbound(ctx context.Context, m domain.OutboundMessage) error
}

type sentRecorder interface {
	RecordSent(ctx context.Context, id string, ch domain.Channel, ts time.Time) error
}

type statsCache interface {
	Get(ctx context.Context) (*domain.NotificationStats, error)
	Set(ctx context.Context, s domain.NotificationStats) error
}
