package inbound

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/logx"
)

// Processor handles inbound rider replies. It never returns an error to
// the webhook: whatever happens inside, the provider already delivered
// the message and will not take it back, so every reply is recorded and
// failures only show up in logs and metrics.
type Processor struct {
	riders      riderReader
	assignments assignmentReader
	requests    requestReader
	status      statusTransitioner
	sms         smsGateway
	composer    replyComposer
	tracking    inboundTracker
	activity    activityLog

	factory          *actionFactory
	intentTotal      *prometheus.CounterVec
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// Deps carries the processor's collaborators.
type Deps struct {
	Riders      riderReader
	Assignments assignmentReader
	Requests    requestReader
	Status      statusTransitioner
	SMS         smsGateway
	Composer    replyComposer
	Tracking    inboundTracker
	Activity    activityLog
	IntentTotal *prometheus.CounterVec
}

// NewProcessor creates a new inbound Processor.
func NewProcessor(d Deps, timeout time.Duration, logger logx.Logger) *Processor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &Processor{
		riders:           d.Riders,
		assignments:      d.Assignments,
		requests:         d.Requests,
		status:           d.Status,
		sms:              d.SMS,
		composer:         d.Composer,
		tracking:         d.Tracking,
		activity:         d.Activity,
		intentTotal:      d.IntentTotal,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
	p.factory = newActionFactory(p.onConfirm, p.onDecline, p.onInfo)
	return p
}

// Handle processes a single reply end to end: sender lookup, intent
// classification, the intent's action, the auto-reply and the tracking
// record. The returned InboundResponse is what was recorded.
func (p *Processor) Handle(ctx context.Context, r Reply) domain.InboundResponse {
	ctx, cancel := context.WithTimeout(ctx, p.operationTimeout)
	defer cancel()

	receivedAt := r.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = p.now()
	}
	record := domain.InboundResponse{
		FromAddress: r.From,
		Body:        r.Body,
		ReceivedAt:  receivedAt,
		ExternalID:  r.ExternalID,
	}

	rider := p.lookupSender(ctx, r.From)
	if rider == nil {
		record.Intent = domain.IntentUnknownSender
		p.logger.Warn("inbound reply from unknown sender", logx.String("from", r.From))
	} else {
		record.MatchedRiderName = rider.Name
		record.Intent = domain.ClassifyIntent(r.Body)
		p.dispatchAction(ctx, rider, &record)
	}

	p.intentTotal.WithLabelValues(string(record.Intent)).Inc()
	if err := p.tracking.InsertInbound(ctx, record); err != nil {
		p.logger.Error("inbound tracking write failed", logx.Error(err))
	}
	return record
}

func (p *Processor) lookupSender(ctx context.Context, from string) *domain.Rider {
	phone, ok := domain.NormalizePhone(from)
	if !ok {
		return nil
	}
	rider, err := p.riders.FindByPhone(ctx, phone)
	if err != nil {
		p.logger.Error("rider lookup failed", logx.String("from", from), logx.Error(err))
		return nil
	}
	return rider
}

func (p *Processor) dispatchAction(ctx context.Context, rider *domain.Rider, record *domain.InboundResponse) {
	fn, ok := p.factory.get(record.Intent)
	if !ok {
		// GENERAL остаётся оператору
		p.recordActivity(ctx, fmt.Sprintf("reply from %s needs follow-up: %s", rider.Name, record.Body))
		return
	}

	out, err := fn(ctx, rider)
	if err != nil {
		p.logger.Error("reply action failed",
			logx.String("rider", rider.Name),
			logx.String("intent", string(record.Intent)),
			logx.Error(err),
		)
		return
	}
	record.AssignmentAffected = out.assignmentID

	if out.ack != "" {
		if _, err := p.sms.Send(ctx, rider.Phone, out.ack); err != nil {
			p.logger.Warn("auto-reply send failed",
				logx.String("rider", rider.Name), logx.Error(err))
		} else {
			record.AutoReplySent = true
		}
	}
}

// onConfirm moves the rider's open assignment to Confirmed. A repeat
// CONFIRM finds nothing left in Assigned and acknowledges again without
// touching anything.
func (p *Processor) onConfirm(ctx context.Context, rider *domain.Rider) (outcome, error) {
	open, err := p.assignments.FindOpenByRider(ctx, rider.Name)
	if err != nil {
		return outcome{}, err
	}
	if open == nil {
		latest, err := p.assignments.FindLatestByRider(ctx, rider.Name)
		if err != nil {
			return outcome{}, err
		}
		if latest != nil && latest.Status == domain.StatusConfirmed {
			return outcome{ack: p.composer.ConfirmAck(latest.ID)}, nil
		}
		p.logger.Info("confirm with no open assignment", logx.String("rider", rider.Name))
		return outcome{ack: p.composer.ConfirmNoted()}, nil
	}

	if _, err := p.status.Transition(ctx, open.ID, domain.StatusAssigned, domain.StatusConfirmed); err != nil {
		return outcome{}, err
	}
	p.recordActivity(ctx, fmt.Sprintf("%s confirmed assignment %s", rider.Name, open.ID))
	return outcome{assignmentID: open.ID, ack: p.composer.ConfirmAck(open.ID)}, nil
}

// onDecline moves the rider's open assignment to Declined so the
// scheduler can reassign it.
func (p *Processor) onDecline(ctx context.Context, rider *domain.Rider) (outcome, error) {
	open, err := p.assignments.FindOpenByRider(ctx, rider.Name)
	if err != nil {
		return outcome{}, err
	}
	if open == nil {
		p.logger.Info("decline with no open assignment", logx.String("rider", rider.Name))
		return outcome{}, nil
	}

	if _, err := p.status.Transition(ctx, open.ID, domain.StatusAssigned, domain.StatusDeclined); err != nil {
		return outcome{}, err
	}
	p.recordActivity(ctx, fmt.Sprintf("%s declined assignment %s", rider.Name, open.ID))
	return outcome{assignmentID: open.ID, ack: p.composer.DeclineAck(open.ID)}, nil
}

// onInfo answers with the details of the rider's nearest assignment.
// No status change.
func (p *Processor) onInfo(ctx context.Context, rider *domain.Rider) (outcome, error) {
	a, err := p.assignments.FindLatestByRider(ctx, rider.Name)
	if err != nil {
		return outcome{}, err
	}
	if a == nil {
		return outcome{}, nil
	}

	var req domain.RequestDetails
	if rd, err := p.requests.Get(ctx, a.RequestID); err == nil && rd != nil {
		req = *rd
	}
	return outcome{ack: p.composer.Info(*a, req)}, nil
}

func (p *Processor) recordActivity(ctx context.Context, text string) {
	if err := p.activity.Record(ctx, text); err != nil {
		p.logger.Warn("activity log write failed", logx.Error(err))
	}
}
