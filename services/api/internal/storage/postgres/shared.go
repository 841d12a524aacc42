package postgres

import (
	"context"
	"fmt"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the slice of repository behavior the cross-repo helpers need;
// both ClaimRepository and SettlementRepository satisfy it.
type querier interface {
	exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getUnit(ctx context.Context, q querier, unitID string) (domain.MintUnit, error) {
	const query = `
SELECT id, definition_code, token_id, contract, network, custodian_wallet_id, status, created_at
FROM mint_units
WHERE id = $1`

	var u domain.MintUnit
	var status string
	err := q.queryRow(ctx, query, unitID).
		Scan(&u.ID, &u.DefinitionCode, &u.TokenID, &u.Contract, &u.Network, &u.CustodianWalletID, &status, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.MintUnit{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.MintUnit{}, domain.ErrUnitNotFound
		}
		return domain.MintUnit{}, fmt.Errorf("get unit: %w", err)
	}
	u.Status = domain.MintUnitStatus(status)
	return u, nil
}

func updateUnitStatus(ctx context.Context, q querier, unitID string, status domain.MintUnitStatus) error {
	const stmt = `UPDATE mint_units SET status = $2 WHERE id = $1`

	tag, err := q.exec(ctx, stmt, unitID, status)
	if err != nil {
		return fmt.Errorf("update unit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

func createSettlementRecord(ctx context.Context, q querier, record domain.SettlementRecord) error {
	const stmt = `
INSERT INTO settlement_records (id, related_id, network, tx_hash, status, submitted_at, confirmed_at, error, reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := q.exec(ctx, stmt,
		record.ID,
		record.RelatedID,
		record.Network,
		record.TxHash,
		record.Status,
		record.SubmittedAt,
		record.ConfirmedAt,
		record.Error,
		record.Reason,
	)
	if err != nil {
		return fmt.Errorf("create settlement record: %w", err)
	}
	return nil
}
