package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepo appends audit narration lines for operators.
type ActivityRepo struct{ db *pgxpool.Pool }

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *pgxpool.Pool) *ActivityRepo { return &ActivityRepo{db: db} }

// Record appends one audit line.
func (r *ActivityRepo) Record(ctx context.Context, text string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO activity_log (entry, created_at) VALUES ($1, now())`, text)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}
