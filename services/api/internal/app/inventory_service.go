package app

import (
	"context"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetDefinition(ctx context.Context, code string) (domain.BadgeDefinition, error)
	CreateDefinition(ctx context.Context, def domain.BadgeDefinition) error
	ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error)
	CreateUnit(ctx context.Context, unit domain.MintUnit) error
}

type InventoryService struct {
	repo  InventoryRepository
	clock clock.Clock
}

const maxBatchSize = 1000

func NewInventoryService(repo InventoryRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:  repo,
		clock: clk,
	}
}

type CreateDefinitionInput struct {
	Code        string
	Name        string
	Description string
}

func (s *InventoryService) CreateDefinition(ctx context.Context, in CreateDefinitionInput) (domain.BadgeDefinition, error) {
	if in.Code == "" {
		return domain.BadgeDefinition{}, domain.ErrDefinitionCodeRequired
	}
	if in.Name == "" {
		return domain.BadgeDefinition{}, domain.ErrDefinitionNameRequired
	}

	def := domain.BadgeDefinition{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateDefinition(ctx, def); err != nil {
		return domain.BadgeDefinition{}, err
	}
	return def, nil
}

func (s *InventoryService) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	return s.repo.ListDefinitions(ctx)
}

type CreateBatchInput struct {
	DefinitionCode    string
	Count             int
	StartTokenID      int64
	Contract          string
	Network           string
	CustodianWalletID string
}

// CreateBatch registers count pre-minted units with consecutive token ids in
// one transaction. A token id already registered for the same contract and
// network fails the whole batch.
func (s *InventoryService) CreateBatch(ctx context.Context, in CreateBatchInput) ([]domain.MintUnit, error) {
	if in.DefinitionCode == "" {
		return nil, domain.ErrDefinitionCodeRequired
	}
	if in.Count <= 0 || in.Count > maxBatchSize {
		return nil, domain.ErrInvalidCount
	}
	if in.StartTokenID < 0 {
		return nil, domain.ErrInvalidTokenID
	}
	if in.Contract == "" || in.Network == "" || in.CustodianWalletID == "" {
		return nil, domain.ErrInvalidID
	}

	now := s.clock.Now()
	units := make([]domain.MintUnit, 0, in.Count)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetDefinition(txCtx, in.DefinitionCode); err != nil {
			return err
		}
		for i := 0; i < in.Count; i++ {
			unit := domain.MintUnit{
				ID:                newID(),
				DefinitionCode:    in.DefinitionCode,
				TokenID:           in.StartTokenID + int64(i),
				Contract:          in.Contract,
				Network:           in.Network,
				CustodianWalletID: in.CustodianWalletID,
				Status:            domain.MintUnitStatusMinted,
				CreatedAt:         now,
			}
			if err := s.repo.CreateUnit(txCtx, unit); err != nil {
				return err
			}
			units = append(units, unit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}
