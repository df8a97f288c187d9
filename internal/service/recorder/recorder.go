package recorder

import (
	"context"
	"fmt"
	"time"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/logx"
)

// Service - service recording delivery outcomes and reply-driven status
// transitions on assignments. All writes are narrow field updates; the
// assignment row itself is owned by the external scheduler, so a row
// vanishing mid-flight is logged and tolerated, never an error.
type Service struct {
	repo             assignmentWriter
	cache            statsInvalidator
	activity         activityLog
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService - creates a new recorder Service.
func NewService(repo assignmentWriter, cache statsInvalidator, activity activityLog, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		cache:            cache,
		activity:         activity,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// RecordSent stamps the channel's sent timestamp on the assignment. The
// send already happened and is in the tracking log, so a missing
// assignment is a no-op here.
func (s *Service) RecordSent(ctx context.Context, id string, ch domain.Channel, ts time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.SetSentAt(ctx, id, ch, ts)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("assignment missing, send kept in tracking log only",
			logx.String("assignment_id", id),
			logx.String("channel", string(ch)),
		)
		return nil
	}

	s.invalidateStats(ctx)
	s.recordActivity(ctx, fmt.Sprintf("notified assignment %s over %s", id, ch))
	return nil
}

// Transition applies a reply-driven status change as a compare-and-set.
// Returns false without error when the assignment was no longer in the
// expected status, which callers treat as an idempotent repeat.
func (s *Service) Transition(ctx context.Context, id string, from, to domain.AssignmentStatus) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("transition %s -> %s: %w", from, to, apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.SetStatus(ctx, id, from, to)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	s.logger.Info("assignment status changed",
		logx.String("event", "status_changed"),
		logx.String("assignment_id", id),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	s.invalidateStats(ctx)
	s.recordActivity(ctx, fmt.Sprintf("assignment %s moved %s -> %s", id, from, to))
	return true, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("stats cache invalidation failed", logx.Error(err))
	}
}

func (s *Service) recordActivity(ctx context.Context, text string) {
	if err := s.activity.Record(ctx, text); err != nil {
		s.logger.Warn("activity log write failed", logx.Error(err))
	}
}
