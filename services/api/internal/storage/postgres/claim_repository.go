package postgres

import (
	"context"
	"fmt"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClaimRepository backs the claim and manual-override paths. The
// SelectAvailableUnit* methods are the allocation locker: they read with
// FOR UPDATE SKIP LOCKED so concurrent claimants land on distinct rows
// instead of queueing behind each other's transactions.
type ClaimRepository struct {
	pool *pgxpool.Pool
}

func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

func (r *ClaimRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ClaimRepository) GetDefinition(ctx context.Context, code string) (domain.BadgeDefinition, error) {
	const query = `SELECT code, name, description, created_at FROM badge_definitions WHERE code = $1`

	var def domain.BadgeDefinition
	err := r.queryRow(ctx, query, code).
		Scan(&def.Code, &def.Name, &def.Description, &def.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.BadgeDefinition{}, domain.ErrDefinitionNotFound
		}
		return domain.BadgeDefinition{}, fmt.Errorf("get definition: %w", err)
	}
	return def, nil
}

// availableUnitPredicate selects units that are still MINTED and not
// reserved by any live claim. FAILED claims do not reserve, so a unit whose
// settlement failed shows up here again.
const availableUnitPredicate = `
mint_units.status = 'MINTED'
AND NOT EXISTS (
	SELECT 1 FROM claims
	WHERE claims.mint_unit_id = mint_units.id
	  AND claims.status IN ('PENDING', 'COMPLETED')
)`

func (r *ClaimRepository) SelectAvailableUnit(ctx context.Context, definitionCode string) (domain.MintUnit, error) {
	const query = `
SELECT id, definition_code, token_id, contract, network, custodian_wallet_id, status, created_at
FROM mint_units
WHERE definition_code = $1
  AND ` + availableUnitPredicate + `
ORDER BY token_id ASC
LIMIT 1
FOR UPDATE OF mint_units SKIP LOCKED`

	unit, err := r.scanUnit(r.queryRow(ctx, query, definitionCode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.MintUnit{}, domain.ErrNoUnitsAvailable
		}
		return domain.MintUnit{}, fmt.Errorf("select available unit: %w", err)
	}
	return unit, nil
}

func (r *ClaimRepository) SelectAvailableUnitByID(ctx context.Context, unitID string) (domain.MintUnit, error) {
	const query = `
SELECT id, definition_code, token_id, contract, network, custodian_wallet_id, status, created_at
FROM mint_units
WHERE id = $1
  AND ` + availableUnitPredicate + `
FOR UPDATE OF mint_units SKIP LOCKED`

	unit, err := r.scanUnit(r.queryRow(ctx, query, unitID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.MintUnit{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.MintUnit{}, domain.ErrUnitUnavailable
		}
		return domain.MintUnit{}, fmt.Errorf("select unit for manual claim: %w", err)
	}
	return unit, nil
}

func (r *ClaimRepository) GetUnit(ctx context.Context, unitID string) (domain.MintUnit, error) {
	return getUnit(ctx, r, unitID)
}

func (r *ClaimRepository) CreateClaim(ctx context.Context, claim domain.Claim) error {
	const stmt = `
INSERT INTO claims (id, user_id, mint_unit_id, claim_type, status, claimed_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		claim.ID,
		claim.UserID,
		claim.MintUnitID,
		claim.ClaimType,
		claim.Status,
		claim.ClaimedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateClaim
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (r *ClaimRepository) CreateOutboxEvent(ctx context.Context, event domain.OutboxEvent) error {
	const stmt = `
INSERT INTO outbox_events (id, event_type, aggregate, aggregate_id, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.EventType,
		event.Aggregate,
		event.AggregateID,
		event.Payload,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create outbox event: %w", err)
	}
	return nil
}

func (r *ClaimRepository) UpdateUnitStatus(ctx context.Context, unitID string, status domain.MintUnitStatus) error {
	return updateUnitStatus(ctx, r, unitID, status)
}

func (r *ClaimRepository) CreateSettlementRecord(ctx context.Context, record domain.SettlementRecord) error {
	return createSettlementRecord(ctx, r, record)
}

func (r *ClaimRepository) scanUnit(row pgx.Row) (domain.MintUnit, error) {
	var u domain.MintUnit
	var status string
	err := row.Scan(&u.ID, &u.DefinitionCode, &u.TokenID, &u.Contract, &u.Network, &u.CustodianWalletID, &status, &u.CreatedAt)
	if err != nil {
		return domain.MintUnit{}, err
	}
	u.Status = domain.MintUnitStatus(status)
	return u, nil
}

func (r *ClaimRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ClaimRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
