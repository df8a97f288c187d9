package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-rider-notify/internal/domain"
)

// TrackingRepo appends to the message tracking log. Entries are written
// once per actual send attempt or inbound reply and never updated or
// deleted; archival is an external concern.
type TrackingRepo struct{ db *pgxpool.Pool }

// NewTrackingRepo creates a new TrackingRepo.
func NewTrackingRepo(db *pgxpool.Pool) *TrackingRepo { return &TrackingRepo{db: db} }

// InsertOutbound appends one outbound send attempt.
func (r *TrackingRepo) InsertOutbound(ctx context.Context, m domain.OutboundMessage) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO outbound_messages
            (assignment_id, recipient, channel, body, external_id, result, error, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, m.AssignmentID, m.RecipientAddress, string(m.Channel), m.Body,
		m.ExternalID, string(m.Result), m.Error, m.SentAt)
	if err != nil {
		return fmt.Errorf("insert outbound message: %w", err)
	}
	return nil
}

// InsertInbound appends one rider reply. The provider retries webhook
// deliveries it considers unacknowledged, so a duplicate external_id
// means the reply is already on file and the insert is a no-op.
func (r *TrackingRepo) InsertInbound(ctx context.Context, in domain.InboundResponse) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO inbound_responses
            (from_address, body, received_at, external_id, matched_rider,
             intent, assignment_affected, auto_reply_sent)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, in.FromAddress, in.Body, in.ReceivedAt, in.ExternalID,
		in.MatchedRiderName, string(in.Intent), in.AssignmentAffected, in.AutoReplySent)
	if err != nil {
		if IsDuplicate(err) {
			return nil
		}
		return fmt.Errorf("insert inbound response: %w", err)
	}
	return nil
}
