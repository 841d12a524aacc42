package domain

import "time"

type SettlementStatus string

const (
	SettlementStatusConfirmed SettlementStatus = "CONFIRMED"
	SettlementStatusFailed    SettlementStatus = "FAILED"
)

// SettlementRecord is the append-only audit trail of finalization outcomes,
// one row per finalized claim.
type SettlementRecord struct {
	ID          string
	RelatedID   string
	Network     string
	TxHash      string
	Status      SettlementStatus
	SubmittedAt time.Time
	ConfirmedAt *time.Time
	Error       string
	// Reason carries the operator's justification for manual overrides.
	Reason string
}
