package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxRepository is the settlement worker's view of the store: unprocessed
// events in creation order, the claim each one belongs to, and a direct
// processed marker for events whose claim was finalized elsewhere.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) ListUnprocessed(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	const query = `
SELECT id, event_type, aggregate, aggregate_id, payload, created_at, processed_at
FROM outbox_events
WHERE processed_at IS NULL
ORDER BY created_at ASC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.Aggregate, &e.AggregateID, &e.Payload, &e.CreatedAt, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *OutboxRepository) GetClaim(ctx context.Context, claimID string) (domain.Claim, error) {
	const query = `
SELECT id, user_id, mint_unit_id, claim_type, status, claimed_at
FROM claims
WHERE id = $1`

	claim, err := scanClaim(r.pool.QueryRow(ctx, query, claimID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Claim{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Claim{}, domain.ErrClaimNotFound
		}
		return domain.Claim{}, fmt.Errorf("get claim: %w", err)
	}
	return claim, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, eventID string, at time.Time) error {
	const stmt = `
UPDATE outbox_events
SET processed_at = $2
WHERE id = $1 AND processed_at IS NULL`

	if _, err := r.pool.Exec(ctx, stmt, eventID, at); err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}
