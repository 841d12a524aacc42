package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettlementRepository backs the finalizer: claim state transitions, the
// settlement audit trail, and marking outbox events processed.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SettlementRepository) GetClaimForUpdate(ctx context.Context, claimID string) (domain.Claim, error) {
	const query = `
SELECT id, user_id, mint_unit_id, claim_type, status, claimed_at
FROM claims
WHERE id = $1
FOR UPDATE`

	claim, err := scanClaim(r.queryRow(ctx, query, claimID))
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

func (r *SettlementRepository) GetUnit(ctx context.Context, unitID string) (domain.MintUnit, error) {
	return getUnit(ctx, r, unitID)
}

func (r *SettlementRepository) UpdateClaimStatus(ctx context.Context, claimID string, status domain.ClaimStatus) error {
	const stmt = `UPDATE claims SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, claimID, status)
	if err != nil {
		return fmt.Errorf("update claim status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}

func (r *SettlementRepository) UpdateUnitStatus(ctx context.Context, unitID string, status domain.MintUnitStatus) error {
	return updateUnitStatus(ctx, r, unitID, status)
}

func (r *SettlementRepository) CreateSettlementRecord(ctx context.Context, record domain.SettlementRecord) error {
	return createSettlementRecord(ctx, r, record)
}

func (r *SettlementRepository) MarkOutboxProcessedByAggregate(ctx context.Context, aggregateID string, at time.Time) error {
	const stmt = `
UPDATE outbox_events
SET processed_at = $2
WHERE aggregate_id = $1 AND processed_at IS NULL`

	// No rows is fine: manual claims have no outbox event, and a reclaimed
	// event may already be marked.
	if _, err := r.exec(ctx, stmt, aggregateID, at); err != nil {
		return fmt.Errorf("mark outbox processed: %w", err)
	}
	return nil
}

func (r *SettlementRepository) ListStalePendingClaimsForUpdate(ctx context.Context, before time.Time) ([]domain.Claim, error) {
	const query = `
SELECT id, user_id, mint_unit_id, claim_type, status, claimed_at
FROM claims
WHERE status = 'PENDING' AND claimed_at < $1
ORDER BY claimed_at ASC
FOR UPDATE SKIP LOCKED`

	rows, err := r.query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list stale claims: %w", err)
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stale claim: %w", err)
		}
		claims = append(claims, claim)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stale claims: %w", rows.Err())
	}
	return claims, nil
}

func scanClaim(row pgx.Row) (domain.Claim, error) {
	var c domain.Claim
	var status string
	err := row.Scan(&c.ID, &c.UserID, &c.MintUnitID, &c.ClaimType, &status, &c.ClaimedAt)
	if err != nil {
		return domain.Claim{}, err
	}
	c.Status = domain.ClaimStatus(status)
	return c, nil
}

func (r *SettlementRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SettlementRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SettlementRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
