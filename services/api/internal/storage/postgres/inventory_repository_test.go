package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/testutil"
	"github.com/google/uuid"
)

func TestInventoryRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewInventoryRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	newUnit := func(code string, tokenID int64) domain.MintUnit {
		return domain.MintUnit{
			ID:                uuid.NewString(),
			DefinitionCode:    code,
			TokenID:           tokenID,
			Contract:          "0xCONTRACT",
			Network:           "amoy",
			CustodianWalletID: "custodian-1",
			Status:            domain.MintUnitStatusMinted,
			CreatedAt:         time.Now().UTC(),
		}
	}

	t.Run("CreateDefinition and GetDefinition round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		def := domain.BadgeDefinition{
			Code:        "BADGE-1",
			Name:        "Recycler",
			Description: "for diligent recycling",
			CreatedAt:   time.Now().UTC(),
		}
		if err := repo.CreateDefinition(ctx, def); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetDefinition(ctx, "BADGE-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name != def.Name || got.Description != def.Description {
			t.Fatalf("unexpected definition: %+v", got)
		}

		if err := repo.CreateDefinition(ctx, def); !errors.Is(err, domain.ErrDefinitionAlreadyExists) {
			t.Fatalf("expected ErrDefinitionAlreadyExists, got %v", err)
		}

		if _, err := repo.GetDefinition(ctx, "missing"); !errors.Is(err, domain.ErrDefinitionNotFound) {
			t.Fatalf("expected ErrDefinitionNotFound, got %v", err)
		}
	})

	t.Run("ListDefinitions orders by creation", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertDefinition(t, ctx, pool, "BADGE-1", "First")
		testutil.InsertDefinition(t, ctx, pool, "BADGE-2", "Second")

		defs, err := repo.ListDefinitions(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(defs) != 2 || defs[0].Code != "BADGE-1" || defs[1].Code != "BADGE-2" {
			t.Fatalf("unexpected definitions: %+v", defs)
		}
	})

	t.Run("CreateUnit enforces token uniqueness and definition FK", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertDefinition(t, ctx, pool, "BADGE-1", "Recycler")

		if err := repo.CreateUnit(ctx, newUnit("BADGE-1", 7)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.CreateUnit(ctx, newUnit("BADGE-1", 7)); !errors.Is(err, domain.ErrDuplicateTokenID) {
			t.Fatalf("expected ErrDuplicateTokenID, got %v", err)
		}
		if err := repo.CreateUnit(ctx, newUnit("BADGE-404", 8)); !errors.Is(err, domain.ErrDefinitionNotFound) {
			t.Fatalf("expected ErrDefinitionNotFound, got %v", err)
		}
	})

	t.Run("batch insert rolls back on duplicate", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertDefinition(t, ctx, pool, "BADGE-1", "Recycler")
		testutil.InsertUnit(t, ctx, pool, "BADGE-1", 2)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.CreateUnit(txCtx, newUnit("BADGE-1", 1)); err != nil {
				return err
			}
			return repo.CreateUnit(txCtx, newUnit("BADGE-1", 2))
		})
		if !errors.Is(err, domain.ErrDuplicateTokenID) {
			t.Fatalf("expected ErrDuplicateTokenID, got %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM mint_units`).Scan(&count); err != nil {
			t.Fatalf("count units: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected only the pre-existing unit, got %d", count)
		}
	})
}
