package domain

import "time"

const (
	EventTypeSendToChain = "SEND_TO_CHAIN"
	AggregateClaim       = "claim"
)

// OutboxEvent is a durable intent to act on an external system, written in
// the same transaction as the state change it describes and consumed later
// by the settlement worker. Append-only; only the finalizer sets
// ProcessedAt.
type OutboxEvent struct {
	ID          string
	EventType   string
	Aggregate   string
	AggregateID string
	Payload     []byte
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// TransferPayload is the SEND_TO_CHAIN event body describing the on-chain
// transfer the settlement worker must perform.
type TransferPayload struct {
	MintUnitID string `json:"mintUnitId"`
	FromWallet string `json:"fromWallet"`
	ToUser     string `json:"toUser"`
	TokenID    int64  `json:"tokenId"`
	Contract   string `json:"contract"`
	Network    string `json:"network"`
}
