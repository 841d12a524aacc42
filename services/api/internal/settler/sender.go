// Package settler drains the transactional outbox, performs the on-chain
// token transfer through a ChainSender, and reports terminal outcomes to the
// finalizer. It is the only part of the system that talks to a chain, and it
// never touches claim state directly.
package settler

import "context"

// TransferRequest carries everything a sender needs to move one token from
// the custodian wallet to the claiming user.
type TransferRequest struct {
	MintUnitID string
	FromWallet string
	ToUser     string
	TokenID    int64
	Contract   string
	Network    string
}

// ChainSender submits one token transfer and returns the transaction hash.
// Implementations own the wallet resolution and signing for their chain.
type ChainSender interface {
	SendToken(ctx context.Context, req TransferRequest) (txHash string, err error)
}
