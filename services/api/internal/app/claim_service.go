package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

type ClaimRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetDefinition(ctx context.Context, code string) (domain.BadgeDefinition, error)
	SelectAvailableUnit(ctx context.Context, definitionCode string) (domain.MintUnit, error)
	GetUnit(ctx context.Context, unitID string) (domain.MintUnit, error)
	SelectAvailableUnitByID(ctx context.Context, unitID string) (domain.MintUnit, error)
	CreateClaim(ctx context.Context, claim domain.Claim) error
	CreateOutboxEvent(ctx context.Context, event domain.OutboxEvent) error
	UpdateUnitStatus(ctx context.Context, unitID string, status domain.MintUnitStatus) error
	CreateSettlementRecord(ctx context.Context, record domain.SettlementRecord) error
}

type ClaimService struct {
	repo  ClaimRepository
	clock clock.Clock
}

func NewClaimService(repo ClaimRepository, clk clock.Clock) *ClaimService {
	return &ClaimService{
		repo:  repo,
		clock: clk,
	}
}

type CreateClaimInput struct {
	DefinitionCode string
	UserID         string
	ClaimType      string
}

// CreateClaim reserves one available mint unit for the user and records the
// intent to transfer it on chain. The allocation, the PENDING claim, and the
// outbox event commit in a single transaction: either all of them exist
// afterwards or none do.
func (s *ClaimService) CreateClaim(ctx context.Context, in CreateClaimInput) (domain.Claim, error) {
	if in.DefinitionCode == "" {
		return domain.Claim{}, domain.ErrDefinitionCodeRequired
	}
	if in.UserID == "" {
		return domain.Claim{}, domain.ErrUserIDRequired
	}
	if in.ClaimType == "" {
		return domain.Claim{}, domain.ErrClaimTypeRequired
	}

	now := s.clock.Now()
	var result domain.Claim

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetDefinition(txCtx, in.DefinitionCode); err != nil {
			return err
		}

		unit, err := s.repo.SelectAvailableUnit(txCtx, in.DefinitionCode)
		if err != nil {
			return err
		}

		claim := domain.Claim{
			ID:         newID(),
			UserID:     in.UserID,
			MintUnitID: unit.ID,
			ClaimType:  in.ClaimType,
			Status:     domain.ClaimStatusPending,
			ClaimedAt:  now,
		}
		if err := s.repo.CreateClaim(txCtx, claim); err != nil {
			return err
		}

		payload, err := json.Marshal(domain.TransferPayload{
			MintUnitID: unit.ID,
			FromWallet: unit.CustodianWalletID,
			ToUser:     in.UserID,
			TokenID:    unit.TokenID,
			Contract:   unit.Contract,
			Network:    unit.Network,
		})
		if err != nil {
			return fmt.Errorf("marshal transfer payload: %w", err)
		}

		event := domain.OutboxEvent{
			ID:          newID(),
			EventType:   domain.EventTypeSendToChain,
			Aggregate:   domain.AggregateClaim,
			AggregateID: claim.ID,
			Payload:     payload,
			CreatedAt:   now,
		}
		if err := s.repo.CreateOutboxEvent(txCtx, event); err != nil {
			return err
		}

		result = claim
		return nil
	})
	if err != nil {
		return domain.Claim{}, err
	}
	return result, nil
}

type CreateManualClaimInput struct {
	UserID     string
	MintUnitID string
	ClaimType  string
	Reason     string
}

// CreateManualClaim is the operator path: it records a COMPLETED claim and a
// TRANSFERRED unit in one transaction, skipping the outbox because the
// transfer already happened off-system. It locks the unit through the same
// availability predicate as the normal path, so a unit reserved by a live
// claim cannot be handed out twice.
func (s *ClaimService) CreateManualClaim(ctx context.Context, in CreateManualClaimInput) (domain.Claim, error) {
	if in.UserID == "" {
		return domain.Claim{}, domain.ErrUserIDRequired
	}
	if in.MintUnitID == "" {
		return domain.Claim{}, domain.ErrInvalidID
	}
	if in.ClaimType == "" {
		return domain.Claim{}, domain.ErrClaimTypeRequired
	}
	if in.Reason == "" {
		return domain.Claim{}, domain.ErrReasonRequired
	}

	now := s.clock.Now()
	var result domain.Claim

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetUnit(txCtx, in.MintUnitID); err != nil {
			return err
		}

		unit, err := s.repo.SelectAvailableUnitByID(txCtx, in.MintUnitID)
		if err != nil {
			return err
		}

		claim := domain.Claim{
			ID:         newID(),
			UserID:     in.UserID,
			MintUnitID: unit.ID,
			ClaimType:  in.ClaimType,
			Status:     domain.ClaimStatusCompleted,
			ClaimedAt:  now,
		}
		if err := s.repo.CreateClaim(txCtx, claim); err != nil {
			return err
		}
		if err := s.repo.UpdateUnitStatus(txCtx, unit.ID, domain.MintUnitStatusTransferred); err != nil {
			return err
		}

		confirmedAt := now
		record := domain.SettlementRecord{
			ID:          newID(),
			RelatedID:   claim.ID,
			Network:     unit.Network,
			Status:      domain.SettlementStatusConfirmed,
			SubmittedAt: now,
			ConfirmedAt: &confirmedAt,
			Reason:      in.Reason,
		}
		if err := s.repo.CreateSettlementRecord(txCtx, record); err != nil {
			return err
		}

		result = claim
		return nil
	})
	if err != nil {
		return domain.Claim{}, err
	}
	return result, nil
}
