package dispatch

import (
	"context"
	"fmt"
	"time"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/repository"
)

// Selection names the group of assignments a batch targets. Explicit IDs
// win over a preset; an empty selection means everything still pending.
type Selection struct {
	IDs    []string
	Preset string
}

// List of selection presets.
const (
	PresetPending  = "pending"
	PresetAssigned = "assigned"
	PresetToday    = "today"
	PresetWeek     = "week"
)

// resolve turns a selection into the concrete target list, in the order
// sends will be attempted.
func (o *Orchestrator) resolve(ctx context.Context, sel Selection) ([]domain.Assignment, error) {
	if len(sel.IDs) > 0 {
		// явный список идёт как есть, даже если уже уведомляли
		return o.assignments.List(ctx, repository.ListFilter{IDs: sel.IDs})
	}

	day := o.midnight()
	switch sel.Preset {
	case "", PresetPending:
		return o.assignments.List(ctx, repository.ListFilter{Pending: true})
	case PresetAssigned:
		// весь активный состав, уже подтверждённые тоже в выборке
		return o.assignments.List(ctx, repository.ListFilter{Active: true})
	case PresetToday:
		to := day.AddDate(0, 0, 1)
		return o.assignments.List(ctx, repository.ListFilter{Pending: true, DateFrom: &day, DateTo: &to})
	case PresetWeek:
		to := day.AddDate(0, 0, 7)
		return o.assignments.List(ctx, repository.ListFilter{Pending: true, DateFrom: &day, DateTo: &to})
	default:
		return nil, fmt.Errorf("selection preset %q: %w", sel.Preset, apperr.ErrInvalid)
	}
}

func (o *Orchestrator) midnight() time.Time {
	now := o.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
