package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/domain"
)

const assignmentColumns = `id, request_id, rider_name, event_date, start_time, end_time,
	start_location, end_location, status, notified_at, sms_sent_at, email_sent_at`

// AssignmentRepo reads assignments and applies the narrow, field-scoped
// writes this engine is allowed to make. Rows are created and deleted by
// the external scheduler.
type AssignmentRepo struct{ db *pgxpool.Pool }

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo { return &AssignmentRepo{db: db} }

// ListFilter narrows assignment selection. Zero value selects everything.
type ListFilter struct {
	IDs       []string
	DateFrom  *time.Time
	DateTo    *time.Time
	Pending   bool // has rider, active status, nothing sent on any channel
	Active    bool // has rider, status not terminal
}

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.RequestID, &a.RiderName, &a.EventDate, &a.StartTime,
		&a.EndTime, &a.StartLocation, &a.EndLocation, &a.Status,
		&a.NotifiedAt, &a.SMSSentAt, &a.EmailSentAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get - returns assignment by its ID.
func (r *AssignmentRepo) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %s: %w", id, err)
	}
	return a, nil
}

// List returns assignments matching the filter, in stable id order.
// Selection order is the order sends are attempted in.
func (r *AssignmentRepo) List(ctx context.Context, f ListFilter) ([]domain.Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM assignments`
	var conds []string
	var args []any

	if len(f.IDs) > 0 {
		args = append(args, f.IDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("event_date < $%d", len(args)))
	}
	if f.Pending || f.Active {
		conds = append(conds, "rider_name <> ''")
		conds = append(conds, "status NOT IN ('Completed','Cancelled','No Show')")
	}
	if f.Pending {
		conds = append(conds, "sms_sent_at IS NULL AND email_sent_at IS NULL")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY event_date, id"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// FindOpenByRider returns the rider's earliest assignment still in
// Assigned status, or nil when none exists.
func (r *AssignmentRepo) FindOpenByRider(ctx context.Context, riderName string) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE rider_name = $1 AND status = $2
		 ORDER BY event_date, id
		 LIMIT 1`, riderName, string(domain.StatusAssigned)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open assignment for %q: %w", riderName, err)
	}
	return a, nil
}

// FindLatestByRider returns the rider's most relevant non-terminal
// assignment regardless of confirmation state (used for INFO replies).
func (r *AssignmentRepo) FindLatestByRider(ctx context.Context, riderName string) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE rider_name = $1 AND status NOT IN ('Completed','Cancelled','No Show')
		 ORDER BY event_date, id
		 LIMIT 1`, riderName))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest assignment for %q: %w", riderName, err)
	}
	return a, nil
}

// SetSentAt overwrites the channel's sent timestamp and sets notified_at
// if no earlier channel succeeded. The write touches only those fields.
// Returns false when the assignment does not exist.
func (r *AssignmentRepo) SetSentAt(ctx context.Context, id string, ch domain.Channel, ts time.Time) (bool, error) {
	var col string
	switch ch {
	case domain.ChannelSMS:
		col = "sms_sent_at"
	case domain.ChannelEmail:
		col = "email_sent_at"
	default:
		return false, fmt.Errorf("set sent at: channel %q: %w", ch, apperr.ErrInvalid)
	}
	ct, err := r.db.Exec(ctx, fmt.Sprintf(`
        UPDATE assignments
        SET %s = $2,
            notified_at = COALESCE(notified_at, $2),
            updated_at = now()
        WHERE id = $1
    `, col), id, ts)
	if err != nil {
		return false, fmt.Errorf("set %s for assignment %s: %w", col, id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// SetStatus moves an assignment from one status to another as a single
// compare-and-set, making repeated transitions a no-op rather than an
// error. Returns false when no row was in the expected status.
func (r *AssignmentRepo) SetStatus(ctx context.Context, id string, from, to domain.AssignmentStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE assignments
        SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("set status of assignment %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats aggregates notification counters for the dashboard collaborator.
func (r *AssignmentRepo) Stats(ctx context.Context, now time.Time) (domain.NotificationStats, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var s domain.NotificationStats
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE rider_name <> '' AND status NOT IN ('Completed','Cancelled','No Show')),
            COUNT(*) FILTER (WHERE rider_name <> '' AND status NOT IN ('Completed','Cancelled','No Show')
                               AND sms_sent_at IS NULL AND email_sent_at IS NULL),
            COUNT(*) FILTER (WHERE sms_sent_at >= $1),
            COUNT(*) FILTER (WHERE email_sent_at >= $1)
        FROM assignments
    `, day).Scan(&s.TotalEligible, &s.Pending, &s.SentTodaySMS, &s.SentTodayEmail)
	if err != nil {
		return domain.NotificationStats{}, fmt.Errorf("assignment stats: %w", err)
	}
	return s, nil
}
