package postgres

import (
	"context"
	"fmt"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository backs the admin surface: badge definitions and batch
// registration of pre-minted units.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *InventoryRepository) GetDefinition(ctx context.Context, code string) (domain.BadgeDefinition, error) {
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

func (r *InventoryRepository) CreateDefinition(ctx context.Context, def domain.BadgeDefinition) error {
	const stmt = `
INSERT INTO badge_definitions (code, name, description, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, def.Code, def.Name, def.Description, def.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDefinitionAlreadyExists
		}
		return fmt.Errorf("create definition: %w", err)
	}
	return nil
}

func (r *InventoryRepository) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	const query = `
SELECT code, name, description, created_at
FROM badge_definitions
ORDER BY created_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.BadgeDefinition
	for rows.Next() {
		var def domain.BadgeDefinition
		if err := rows.Scan(&def.Code, &def.Name, &def.Description, &def.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		defs = append(defs, def)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate definitions: %w", rows.Err())
	}
	return defs, nil
}

func (r *InventoryRepository) CreateUnit(ctx context.Context, unit domain.MintUnit) error {
	const stmt = `
INSERT INTO mint_units (id, definition_code, token_id, contract, network, custodian_wallet_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		unit.ID,
		unit.DefinitionCode,
		unit.TokenID,
		unit.Contract,
		unit.Network,
		unit.CustodianWalletID,
		unit.Status,
		unit.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTokenID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrDefinitionNotFound
		}
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *InventoryRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
