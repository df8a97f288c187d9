package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/config"
	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/logx"
)

// Orchestrator drives outbound notification sends: single assignments on
// demand and operator-triggered batches. A batch is best-effort per
// target; one rider's bad phone number must never block the rest of the
// run, so per-target failures are folded into the batch report instead
// of propagating.
type Orchestrator struct {
	assignments assignmentReader
	riders      riderReader
	requests    requestReader
	sms         smsGateway
	email       emailGateway
	composer    messageComposer
	tracking    outboundTracker
	recorder    sentRecorder
	cache       statsCache

	cfg         config.Dispatch
	sentTotal   *prometheus.CounterVec
	failedTotal *prometheus.CounterVec
	logger      logx.Logger

	sleep      func(time.Duration)
	now        func() time.Time
	newBatchID func() string
}

// Deps carries the orchestrator's collaborators.
type Deps struct {
	Assignments assignmentReader
	Riders      riderReader
	Requests    requestReader
	SMS         smsGateway
	Email       emailGateway
	Composer    messageComposer
	Tracking    outboundTracker
	Recorder    sentRecorder
	Cache       statsCache
	SentTotal   *prometheus.CounterVec
	FailedTotal *prometheus.CounterVec
}

// NewOrchestrator - creates a new dispatch Orchestrator.
func NewOrchestrator(d Deps, cfg config.Dispatch, logger logx.Logger) *Orchestrator {
	if cfg.PaceEvery <= 0 {
		cfg.PaceEvery = config.DefaultDispatch().PaceEvery
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = config.DefaultDispatch().OperationTimeout
	}
	return &Orchestrator{
		assignments: d.Assignments,
		riders:      d.Riders,
		requests:    d.Requests,
		sms:         d.SMS,
		email:       d.Email,
		composer:    d.Composer,
		tracking:    d.Tracking,
		recorder:    d.Recorder,
		cache:       d.Cache,
		cfg:         cfg,
		sentTotal:   d.SentTotal,
		failedTotal: d.FailedTotal,
		logger:      logger,
		sleep:       time.Sleep,
		now:         func() time.Time { return time.Now().UTC() },
		newBatchID:  uuid.NewString,
	}
}

// SendOne notifies a single assignment over the requested channel. The
// "both" channel expands to SMS then email, each reported independently.
func (o *Orchestrator) SendOne(ctx context.Context, assignmentID string, ch domain.Channel) ([]domain.SendResult, error) {
	if !ch.Valid() {
		return nil, fmt.Errorf("channel %q: %w", ch, apperr.ErrInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.OperationTimeout)
	defer cancel()

	a, err := o.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, apperr.ErrNotFound)
	}

	return o.deliver(ctx, *a, ch), nil
}

// SendBatch notifies every assignment the selection resolves to. The
// returned report is valid even when err is non-nil; a context
// cancellation mid-run leaves the counts for the part that did run.
func (o *Orchestrator) SendBatch(ctx context.Context, sel Selection, ch domain.Channel, label string) (domain.BatchResult, error) {
	batch := domain.BatchResult{Label: label}
	if !ch.Valid() {
		return batch, fmt.Errorf("channel %q: %w", ch, apperr.ErrInvalid)
	}

	listCtx, cancel := context.WithTimeout(ctx, o.cfg.OperationTimeout)
	targets, err := o.resolve(listCtx, sel)
	cancel()
	if err != nil {
		return batch, err
	}

	batchID := o.newBatchID()
	log := o.logger.With(
		logx.String("batch_id", batchID),
		logx.String("label", label),
		logx.String("channel", string(ch)),
	)
	log.Info("dispatch batch started", logx.Int("targets", len(targets)))

	sent := 0
	for _, a := range targets {
		if ctx.Err() != nil {
			break
		}

		targetCtx, cancel := context.WithTimeout(ctx, o.cfg.OperationTimeout)
		results := o.deliver(targetCtx, a, ch)
		cancel()

		for _, res := range results {
			if res.Success {
				batch.RecordSuccess()
			} else {
				batch.RecordFailure(fmt.Sprintf("%s (%s): %s", res.AssignmentID, res.Channel, res.Error))
			}

			sent++
			if sent%o.cfg.PaceEvery == 0 {
				o.sleep(o.cfg.PacePause)
			}
		}
	}

	log.Info("dispatch batch finished",
		logx.Int("successful", batch.Successful),
		logx.Int("failed", batch.Failed),
	)
	return batch, ctx.Err()
}

// Stats returns the dashboard counters, served from cache when fresh.
func (o *Orchestrator) Stats(ctx context.Context) (domain.NotificationStats, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.OperationTimeout)
	defer cancel()

	if cached, err := o.cache.Get(ctx); err != nil {
		o.logger.Warn("stats cache read failed", logx.Error(err))
	} else if cached != nil {
		return *cached, nil
	}

	s, err := o.assignments.Stats(ctx, o.now())
	if err != nil {
		return domain.NotificationStats{}, err
	}
	if err := o.cache.Set(ctx, s); err != nil {
		o.logger.Warn("stats cache write failed", logx.Error(err))
	}
	return s, nil
}

// deliver sends one assignment's notification over each expanded
// channel. Failures come back as failed results, never as errors.
func (o *Orchestrator) deliver(ctx context.Context, a domain.Assignment, ch domain.Channel) []domain.SendResult {
	var req domain.RequestDetails
	if rd, err := o.requests.Get(ctx, a.RequestID); err != nil {
		// обогащение не критично, шлём без деталей заявки
		o.logger.Warn("request lookup failed", logx.String("request_id", a.RequestID), logx.Error(err))
	} else if rd != nil {
		req = *rd
	}

	rider, err := o.riders.FindByName(ctx, a.RiderName)
	if err != nil {
		o.logger.Warn("rider lookup failed", logx.String("rider", a.RiderName), logx.Error(err))
	}

	var out []domain.SendResult
	for _, c := range expandChannel(ch) {
		var res domain.SendResult
		switch c {
		case domain.ChannelSMS:
			res = o.sendSMS(ctx, a, rider, req)
		case domain.ChannelEmail:
			res = o.sendEmail(ctx, a, rider, req)
		}
		out = append(out, res)
	}
	return out
}

func expandChannel(ch domain.Channel) []domain.Channel {
	if ch == domain.ChannelBoth {
		return []domain.Channel{domain.ChannelSMS, domain.ChannelEmail}
	}
	return []domain.Channel{ch}
}

func (o *Orchestrator) sendSMS(ctx context.Context, a domain.Assignment, rider *domain.Rider, req domain.RequestDetails) domain.SendResult {
	res := domain.SendResult{AssignmentID: a.ID, Channel: domain.ChannelSMS, SentAt: o.now()}
	if rider == nil {
		res.Error = "no rider directory entry for " + a.RiderName
		o.finishSend(ctx, a, res, "", "")
		return res
	}

	body := o.composer.SMS(a, req)
	sr, err := o.sms.Send(ctx, rider.Phone, body)
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Success = true
		res.ExternalID = sr.ExternalID
	}
	o.finishSend(ctx, a, res, rider.Phone, body)
	return res
}

func (o *Orchestrator) sendEmail(ctx context.Context, a domain.Assignment, rider *domain.Rider, req domain.RequestDetails) domain.SendResult {
	res := domain.SendResult{AssignmentID: a.ID, Channel: domain.ChannelEmail, SentAt: o.now()}
	if rider == nil {
		res.Error = "no rider directory entry for " + a.RiderName
		o.finishSend(ctx, a, res, "", "")
		return res
	}
	if rider.Email == "" {
		res.Error = "rider has no email on file"
		o.finishSend(ctx, a, res, "", "")
		return res
	}

	subject, body := o.composer.Email(a, req)
	if err := o.email.Send(rider.Email, subject, body); err != nil {
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	o.finishSend(ctx, a, res, rider.Email, body)
	return res
}

// finishSend writes the tracking row, stamps the assignment on success
// and bumps the counters. Tracking failures are logged, not propagated:
// the message already left (or definitively failed) by this point.
func (o *Orchestrator) finishSend(ctx context.Context, a domain.Assignment, res domain.SendResult, recipient, body string) {
	result := domain.ResultFailed
	if res.Success {
		result = domain.ResultSent
	}

	if err := o.tracking.InsertOutbound(ctx, domain.OutboundMessage{
		AssignmentID:     a.ID,
		RecipientAddress: recipient,
		Channel:          res.Channel,
		Body:             body,
		ExternalID:       res.ExternalID,
		Result:           result,
		Error:            res.Error,
		SentAt:           res.SentAt,
	}); err != nil {
		o.logger.Warn("tracking log write failed",
			logx.String("assignment_id", a.ID), logx.Error(err))
	}

	if res.Success {
		o.sentTotal.WithLabelValues(string(res.Channel)).Inc()
		if err := o.recorder.RecordSent(ctx, a.ID, res.Channel, res.SentAt); err != nil {
			o.logger.Warn("sent timestamp not recorded",
				logx.String("assignment_id", a.ID), logx.Error(err))
		}
		return
	}

	o.failedTotal.WithLabelValues(string(res.Channel)).Inc()
	o.logger.Warn("notification send failed",
		logx.String("assignment_id", a.ID),
		logx.String("channel", string(res.Channel)),
		logx.String("error", res.Error),
	)
}
