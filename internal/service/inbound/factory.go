package inbound

import (
	"context"

	"service-rider-notify/internal/domain"
)

// outcome is what a reply action did: which assignment it touched and
// the auto-reply text to send back, if any.
type outcome struct {
	assignmentID string
	ack          string
}

type actionFunc func(context.Context, *domain.Rider) (outcome, error)

type actionFactory struct {
	byIntent map[domain.Intent]actionFunc
}

// GENERAL and UNKNOWN_SENDER have no action on purpose: those replies
// are recorded for manual follow-up and never auto-answered.
func newActionFactory(onConfirm, onDecline, onInfo actionFunc) *actionFactory {
	return &actionFactory{
		byIntent: map[domain.Intent]actionFunc{
			domain.IntentConfirm:     onConfirm,
			domain.IntentDecline:     onDecline,
			domain.IntentInfoRequest: onInfo,
		},
	}
}

func (f *actionFactory) get(intent domain.Intent) (actionFunc, bool) {
	fn, ok := f.byIntent[intent]
	return fn, ok
}
