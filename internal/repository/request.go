package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-rider-notify/internal/domain"
)

// RequestRepo reads the enrichment fields of the external request record.
type RequestRepo struct{ db *pgxpool.Pool }

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(db *pgxpool.Pool) *RequestRepo { return &RequestRepo{db: db} }

// Get returns request details by id, or nil when the request is unknown.
// Missing enrichment never blocks a send; callers treat nil as empty.
func (r *RequestRepo) Get(ctx context.Context, id string) (*domain.RequestDetails, error) {
	var d domain.RequestDetails
	err := r.db.QueryRow(ctx, `
        SELECT id, requester_name, notes, courtesy, co_riders
        FROM requests WHERE id=$1
    `, id).Scan(&d.ID, &d.RequesterName, &d.Notes, &d.Courtesy, &d.CoRiders)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request %s: %w", id, err)
	}
	return &d, nil
}
