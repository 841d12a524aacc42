package app

import (
	"context"
	"sort"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

// fakeRepo implements the repository interfaces of all three services over
// in-memory slices. WithTx snapshots state and restores it when fn fails, so
// the services' all-or-nothing expectations can be asserted.
type fakeRepo struct {
	definitions map[string]domain.BadgeDefinition
	units       []domain.MintUnit
	claims      []domain.Claim
	outbox      []domain.OutboxEvent
	records     []domain.SettlementRecord

	outboxErr error
	unitErr   error
}

func newFakeRepo(defs []domain.BadgeDefinition, units []domain.MintUnit, claims []domain.Claim) *fakeRepo {
	r := &fakeRepo{definitions: make(map[string]domain.BadgeDefinition)}
	for _, def := range defs {
		r.definitions[def.Code] = def
	}
	r.units = append(r.units, units...)
	r.claims = append(r.claims, claims...)
	return r
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	units := append([]domain.MintUnit(nil), r.units...)
	claims := append([]domain.Claim(nil), r.claims...)
	outbox := append([]domain.OutboxEvent(nil), r.outbox...)
	records := append([]domain.SettlementRecord(nil), r.records...)

	if err := fn(ctx); err != nil {
		r.units = units
		r.claims = claims
		r.outbox = outbox
		r.records = records
		return err
	}
	return nil
}

func (r *fakeRepo) GetDefinition(ctx context.Context, code string) (domain.BadgeDefinition, error) {
	def, ok := r.definitions[code]
	if !ok {
		return domain.BadgeDefinition{}, domain.ErrDefinitionNotFound
	}
	return def, nil
}

func (r *fakeRepo) CreateDefinition(ctx context.Context, def domain.BadgeDefinition) error {
	if _, ok := r.definitions[def.Code]; ok {
		return domain.ErrDefinitionAlreadyExists
	}
	r.definitions[def.Code] = def
	return nil
}

func (r *fakeRepo) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	defs := make([]domain.BadgeDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs, nil
}

func (r *fakeRepo) unitReserved(unitID string) bool {
	for _, c := range r.claims {
		if c.MintUnitID == unitID && c.Status != domain.ClaimStatusFailed {
			return true
		}
	}
	return false
}

func (r *fakeRepo) SelectAvailableUnit(ctx context.Context, definitionCode string) (domain.MintUnit, error) {
	var best *domain.MintUnit
	for i := range r.units {
		u := &r.units[i]
		if u.DefinitionCode != definitionCode || u.Status != domain.MintUnitStatusMinted || r.unitReserved(u.ID) {
			continue
		}
		if best == nil || u.TokenID < best.TokenID {
			best = u
		}
	}
	if best == nil {
		return domain.MintUnit{}, domain.ErrNoUnitsAvailable
	}
	return *best, nil
}

func (r *fakeRepo) SelectAvailableUnitByID(ctx context.Context, unitID string) (domain.MintUnit, error) {
	for _, u := range r.units {
		if u.ID != unitID {
			continue
		}
		if u.Status != domain.MintUnitStatusMinted || r.unitReserved(u.ID) {
			return domain.MintUnit{}, domain.ErrUnitUnavailable
		}
		return u, nil
	}
	return domain.MintUnit{}, domain.ErrUnitUnavailable
}

func (r *fakeRepo) GetUnit(ctx context.Context, unitID string) (domain.MintUnit, error) {
	for _, u := range r.units {
		if u.ID == unitID {
			return u, nil
		}
	}
	return domain.MintUnit{}, domain.ErrUnitNotFound
}

func (r *fakeRepo) CreateUnit(ctx context.Context, unit domain.MintUnit) error {
	if r.unitErr != nil {
		return r.unitErr
	}
	for _, u := range r.units {
		if u.Contract == unit.Contract && u.Network == unit.Network && u.TokenID == unit.TokenID {
			return domain.ErrDuplicateTokenID
		}
	}
	r.units = append(r.units, unit)
	return nil
}

func (r *fakeRepo) UpdateUnitStatus(ctx context.Context, unitID string, status domain.MintUnitStatus) error {
	for i := range r.units {
		if r.units[i].ID == unitID {
			r.units[i].Status = status
			return nil
		}
	}
	return domain.ErrUnitNotFound
}

func (r *fakeRepo) CreateClaim(ctx context.Context, claim domain.Claim) error {
	for _, c := range r.claims {
		if c.UserID == claim.UserID && c.MintUnitID == claim.MintUnitID {
			return domain.ErrDuplicateClaim
		}
		if c.MintUnitID == claim.MintUnitID && c.Status != domain.ClaimStatusFailed && claim.Status != domain.ClaimStatusFailed {
			return domain.ErrDuplicateClaim
		}
	}
	r.claims = append(r.claims, claim)
	return nil
}

func (r *fakeRepo) GetClaimForUpdate(ctx context.Context, claimID string) (domain.Claim, error) {
	for _, c := range r.claims {
		if c.ID == claimID {
			return c, nil
		}
	}
	return domain.Claim{}, domain.ErrClaimNotFound
}

func (r *fakeRepo) UpdateClaimStatus(ctx context.Context, claimID string, status domain.ClaimStatus) error {
	for i := range r.claims {
		if r.claims[i].ID == claimID {
			r.claims[i].Status = status
			return nil
		}
	}
	return domain.ErrClaimNotFound
}

func (r *fakeRepo) CreateOutboxEvent(ctx context.Context, event domain.OutboxEvent) error {
	if r.outboxErr != nil {
		return r.outboxErr
	}
	r.outbox = append(r.outbox, event)
	return nil
}

func (r *fakeRepo) MarkOutboxProcessedByAggregate(ctx context.Context, aggregateID string, at time.Time) error {
	for i := range r.outbox {
		if r.outbox[i].AggregateID == aggregateID && r.outbox[i].ProcessedAt == nil {
			processedAt := at
			r.outbox[i].ProcessedAt = &processedAt
		}
	}
	return nil
}

func (r *fakeRepo) CreateSettlementRecord(ctx context.Context, record domain.SettlementRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRepo) ListStalePendingClaimsForUpdate(ctx context.Context, before time.Time) ([]domain.Claim, error) {
	var stale []domain.Claim
	for _, c := range r.claims {
		if c.Status == domain.ClaimStatusPending && c.ClaimedAt.Before(before) {
			stale = append(stale, c)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].ClaimedAt.Before(stale[j].ClaimedAt) })
	return stale, nil
}
