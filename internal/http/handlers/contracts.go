package handlers

import (
	"context"

	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/service/dispatch"
	"service-rider-notify/internal/service/inbound"
)

type notifyUsecase interface {
	SendOne(ctx context.Context, assignmentID string, ch domain.Channel) ([]domain.SendResult, error)
	SendBatch(ctx context.Context, sel dispatch.Selection, ch domain.Channel, label string) (domain.BatchResult, error)
	Stats(ctx context.Context) (domain.NotificationStats, error)
}

// NewNotifyUsecase wires a dispatch Orchestrator into a notifyUsecase.
func NewNotifyUsecase(o *dispatch.Orchestrator) notifyUsecase {
	return o
}

type replyProcessor interface {
	Handle(ctx context.Context, r inbound.Reply) domain.InboundResponse
}

// NewReplyProcessor wires an inbound Processor into a replyProcessor.
func NewReplyProcessor(p *inbound.Processor) replyProcessor {
	return p
}
