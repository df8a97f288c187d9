package inbound

import (
	"context"

	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/gateway/sms"
)

type riderReader interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Rider, error)
}

type assignmentReader interface {
	FindOpenByRider(ctx context.Context, riderName string) (*domain.Assignment, error)
	FindLatestByRider(ctx context.Context, riderName string) (*domain.Assignment, error)
}

type requestReader interface {
	Get(ctx context.Context, id string) (*domain.RequestDetails, error)
}

type statusTransitioner interface {
	Transition(ctx context.Context, id string, from, to domain.AssignmentStatus) (bool, error)
}

type smsGateway interface {
	Send(ctx context.Context, to, body string) (*sms.SendResult, error)
}

type replyComposer interface {
	ConfirmAck(assignmentID string) string
	ConfirmNoted() string
	DeclineAck(assignmentID string) string
	Info(a domain.Assignment, req domain.RequestDetails) string
}

type inboundTracker interface {
	InsertInbound(ctx context.Context, in domain.InboundResponse) error
}

type activityLog interface {
	Record(ctx context.Context, text string) error
}
