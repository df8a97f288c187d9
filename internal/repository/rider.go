package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-rider-notify/internal/domain"
)

// RiderRepo reads the rider directory. The directory is owned by an
// external system; nothing here writes to it. Phone numbers are stored
// in the canonical ten-digit form.
type RiderRepo struct{ db *pgxpool.Pool }

// NewRiderRepo creates a new RiderRepo.
func NewRiderRepo(db *pgxpool.Pool) *RiderRepo { return &RiderRepo{db: db} }

// FindByPhone returns the rider owning a normalized phone number, or nil.
func (r *RiderRepo) FindByPhone(ctx context.Context, phone string) (*domain.Rider, error) {
	var rd domain.Rider
	err := r.db.QueryRow(ctx,
		`SELECT name, phone, email FROM riders WHERE phone=$1`, phone,
	).Scan(&rd.Name, &rd.Phone, &rd.Email)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find rider by phone: %w", err)
	}
	return &rd, nil
}

// FindByName returns the rider by the directory join key, or nil.
func (r *RiderRepo) FindByName(ctx context.Context, name string) (*domain.Rider, error) {
	var rd domain.Rider
	err := r.db.QueryRow(ctx,
		`SELECT name, phone, email FROM riders WHERE name=$1`, name,
	).Scan(&rd.Name, &rd.Phone, &rd.Email)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find rider %q: %w", name, err)
	}
	return &rd, nil
}
