package app

import (
	"context"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

type FinalizeRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetClaimForUpdate(ctx context.Context, claimID string) (domain.Claim, error)
	GetUnit(ctx context.Context, unitID string) (domain.MintUnit, error)
	UpdateClaimStatus(ctx context.Context, claimID string, status domain.ClaimStatus) error
	UpdateUnitStatus(ctx context.Context, unitID string, status domain.MintUnitStatus) error
	CreateSettlementRecord(ctx context.Context, record domain.SettlementRecord) error
	MarkOutboxProcessedByAggregate(ctx context.Context, aggregateID string, at time.Time) error
	ListStalePendingClaimsForUpdate(ctx context.Context, before time.Time) ([]domain.Claim, error)
}

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "SUCCESS"
	OutcomeFailure OutcomeKind = "FAILURE"
)

// Outcome is the terminal result the settlement worker (or an admin)
// reports for a claim's external transfer.
type Outcome struct {
	Kind   OutcomeKind
	TxHash string
	Error  string
}

type FinalizeService struct {
	repo  FinalizeRepository
	clock clock.Clock
}

func NewFinalizeService(repo FinalizeRepository, clk clock.Clock) *FinalizeService {
	return &FinalizeService{
		repo:  repo,
		clock: clk,
	}
}

// Finalize reconciles a terminal settlement outcome into the claim, its mint
// unit, the audit trail, and the originating outbox event, all in one
// transaction. A claim that is no longer PENDING is rejected with
// ErrClaimAlreadyFinalized, which makes the call safe to repeat: only the
// first terminal transition takes effect.
func (s *FinalizeService) Finalize(ctx context.Context, claimID string, out Outcome) (domain.Claim, error) {
	if claimID == "" {
		return domain.Claim{}, domain.ErrInvalidID
	}
	if out.Kind != OutcomeSuccess && out.Kind != OutcomeFailure {
		return domain.Claim{}, domain.ErrInvalidOutcome
	}

	now := s.clock.Now()
	var result domain.Claim

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		claim, err := s.repo.GetClaimForUpdate(txCtx, claimID)
		if err != nil {
			return err
		}
		if claim.Terminal() {
			return domain.ErrClaimAlreadyFinalized
		}

		updated, err := s.finalizeLocked(txCtx, claim, out, now)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return domain.Claim{}, err
	}
	return result, nil
}

// finalizeLocked applies the terminal transition for a claim the caller has
// already locked and verified to be PENDING.
func (s *FinalizeService) finalizeLocked(ctx context.Context, claim domain.Claim, out Outcome, now time.Time) (domain.Claim, error) {
	unit, err := s.repo.GetUnit(ctx, claim.MintUnitID)
	if err != nil {
		return domain.Claim{}, err
	}

	record := domain.SettlementRecord{
		ID:          newID(),
		RelatedID:   claim.ID,
		Network:     unit.Network,
		SubmittedAt: claim.ClaimedAt,
	}

	switch out.Kind {
	case OutcomeSuccess:
		if err := s.repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimStatusCompleted); err != nil {
			return domain.Claim{}, err
		}
		if err := s.repo.UpdateUnitStatus(ctx, claim.MintUnitID, domain.MintUnitStatusTransferred); err != nil {
			return domain.Claim{}, err
		}
		confirmedAt := now
		record.Status = domain.SettlementStatusConfirmed
		record.TxHash = out.TxHash
		record.ConfirmedAt = &confirmedAt
		claim.Status = domain.ClaimStatusCompleted
	case OutcomeFailure:
		// The unit stays MINTED: with no PENDING/COMPLETED claim left
		// referencing it, the allocation query can hand it to the next
		// claimant.
		if err := s.repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimStatusFailed); err != nil {
			return domain.Claim{}, err
		}
		record.Status = domain.SettlementStatusFailed
		record.Error = out.Error
		claim.Status = domain.ClaimStatusFailed
	}

	if err := s.repo.CreateSettlementRecord(ctx, record); err != nil {
		return domain.Claim{}, err
	}
	if err := s.repo.MarkOutboxProcessedByAggregate(ctx, claim.ID, now); err != nil {
		return domain.Claim{}, err
	}
	return claim, nil
}

const reclaimError = "reclaimed: settlement timed out"

// ReclaimStale fails PENDING claims older than the given age, releasing
// their units for re-allocation. It covers the case of a settlement worker
// that died before reporting an outcome; claims whose rows are locked by an
// in-flight finalize are skipped and picked up on a later pass.
func (s *FinalizeService) ReclaimStale(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.clock.Now()
	cutoff := now.Add(-olderThan)

	var reclaimed int
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		claims, err := s.repo.ListStalePendingClaimsForUpdate(txCtx, cutoff)
		if err != nil {
			return err
		}
		for _, claim := range claims {
			if _, err := s.finalizeLocked(txCtx, claim, Outcome{Kind: OutcomeFailure, Error: reclaimError}, now); err != nil {
				return err
			}
			reclaimed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reclaimed, nil
}
