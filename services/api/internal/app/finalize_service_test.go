package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

func TestFinalizeService_Finalize(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	claimedAt := now.Add(-2 * time.Minute)

	seed := func() ([]domain.MintUnit, []domain.Claim) {
		units := []domain.MintUnit{{
			ID:             "unit-1",
			DefinitionCode: "BADGE-1",
			TokenID:        7,
			Contract:       "0xCONTRACT",
			Network:        "amoy",
			Status:         domain.MintUnitStatusMinted,
		}}
		claims := []domain.Claim{{
			ID:         "claim-1",
			UserID:     "user-a",
			MintUnitID: "unit-1",
			ClaimType:  "recycling",
			Status:     domain.ClaimStatusPending,
			ClaimedAt:  claimedAt,
		}}
		return units, claims
	}

	makeSvc := func() (*FinalizeService, *fakeRepo) {
		units, claims := seed()
		repo := newFakeRepo(nil, units, claims)
		repo.outbox = []domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeSendToChain, Aggregate: domain.AggregateClaim, AggregateID: "claim-1"}}
		return NewFinalizeService(repo, clock.NewFixed(now)), repo
	}

	t.Run("success completes claim and transfers unit", func(t *testing.T) {
		svc, repo := makeSvc()

		claim, err := svc.Finalize(context.Background(), "claim-1", Outcome{Kind: OutcomeSuccess, TxHash: "0xabc"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claim.Status != domain.ClaimStatusCompleted {
			t.Fatalf("expected COMPLETED, got %s", claim.Status)
		}
		if repo.units[0].Status != domain.MintUnitStatusTransferred {
			t.Fatalf("expected unit TRANSFERRED, got %s", repo.units[0].Status)
		}

		if len(repo.records) != 1 {
			t.Fatalf("expected 1 settlement record, got %d", len(repo.records))
		}
		record := repo.records[0]
		if record.Status != domain.SettlementStatusConfirmed || record.TxHash != "0xabc" {
			t.Fatalf("unexpected record: %+v", record)
		}
		if record.SubmittedAt != claimedAt {
			t.Fatalf("expected submitted_at %v, got %v", claimedAt, record.SubmittedAt)
		}
		if record.ConfirmedAt == nil || !record.ConfirmedAt.Equal(now) {
			t.Fatalf("expected confirmed_at %v, got %v", now, record.ConfirmedAt)
		}

		if repo.outbox[0].ProcessedAt == nil {
			t.Fatalf("expected outbox event marked processed")
		}
	})

	t.Run("second finalize returns conflict and writes nothing", func(t *testing.T) {
		svc, repo := makeSvc()

		if _, err := svc.Finalize(context.Background(), "claim-1", Outcome{Kind: OutcomeSuccess, TxHash: "0xabc"}); err != nil {
			t.Fatalf("first finalize: %v", err)
		}

		_, err := svc.Finalize(context.Background(), "claim-1", Outcome{Kind: OutcomeSuccess, TxHash: "0xdef"})
		if !errors.Is(err, domain.ErrClaimAlreadyFinalized) {
			t.Fatalf("expected ErrClaimAlreadyFinalized, got %v", err)
		}
		if len(repo.records) != 1 {
			t.Fatalf("expected exactly 1 settlement record, got %d", len(repo.records))
		}
	})

	t.Run("failure keeps unit minted", func(t *testing.T) {
		svc, repo := makeSvc()

		claim, err := svc.Finalize(context.Background(), "claim-1", Outcome{Kind: OutcomeFailure, Error: "gas spike"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claim.Status != domain.ClaimStatusFailed {
			t.Fatalf("expected FAILED, got %s", claim.Status)
		}
		if repo.units[0].Status != domain.MintUnitStatusMinted {
			t.Fatalf("expected unit left MINTED, got %s", repo.units[0].Status)
		}
		if len(repo.records) != 1 || repo.records[0].Status != domain.SettlementStatusFailed || repo.records[0].Error != "gas spike" {
			t.Fatalf("unexpected records: %+v", repo.records)
		}
		if repo.outbox[0].ProcessedAt == nil {
			t.Fatalf("expected outbox event marked processed")
		}
	})

	t.Run("unknown claim", func(t *testing.T) {
		svc, _ := makeSvc()

		_, err := svc.Finalize(context.Background(), "claim-404", Outcome{Kind: OutcomeSuccess, TxHash: "0xabc"})
		if !errors.Is(err, domain.ErrClaimNotFound) {
			t.Fatalf("expected ErrClaimNotFound, got %v", err)
		}
	})

	t.Run("invalid outcome kind", func(t *testing.T) {
		svc, _ := makeSvc()

		_, err := svc.Finalize(context.Background(), "claim-1", Outcome{Kind: "MAYBE"})
		if !errors.Is(err, domain.ErrInvalidOutcome) {
			t.Fatalf("expected ErrInvalidOutcome, got %v", err)
		}
	})
}

func TestFinalizeService_ReclaimStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	units := []domain.MintUnit{
		{ID: "unit-1", DefinitionCode: "BADGE-1", TokenID: 1, Network: "amoy", Status: domain.MintUnitStatusMinted},
		{ID: "unit-2", DefinitionCode: "BADGE-1", TokenID: 2, Network: "amoy", Status: domain.MintUnitStatusMinted},
	}
	claims := []domain.Claim{
		{ID: "stale", UserID: "user-a", MintUnitID: "unit-1", Status: domain.ClaimStatusPending, ClaimedAt: now.Add(-time.Hour)},
		{ID: "fresh", UserID: "user-b", MintUnitID: "unit-2", Status: domain.ClaimStatusPending, ClaimedAt: now.Add(-time.Minute)},
	}

	repo := newFakeRepo(nil, units, claims)
	svc := NewFinalizeService(repo, clock.NewFixed(now))

	n, err := svc.ReclaimStale(context.Background(), 30*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 reclaimed claim, got %d", n)
	}

	staleClaim, _ := repo.GetClaimForUpdate(context.Background(), "stale")
	if staleClaim.Status != domain.ClaimStatusFailed {
		t.Fatalf("expected stale claim FAILED, got %s", staleClaim.Status)
	}
	freshClaim, _ := repo.GetClaimForUpdate(context.Background(), "fresh")
	if freshClaim.Status != domain.ClaimStatusPending {
		t.Fatalf("expected fresh claim untouched, got %s", freshClaim.Status)
	}

	if repo.units[0].Status != domain.MintUnitStatusMinted {
		t.Fatalf("expected reclaimed unit left MINTED, got %s", repo.units[0].Status)
	}
	if len(repo.records) != 1 || repo.records[0].Error != reclaimError {
		t.Fatalf("unexpected records: %+v", repo.records)
	}
}
