package settler

import (
	"context"
	"fmt"
	"log"
	"time"
)

// StubSender simulates an on-chain transfer for local runs: it logs, waits a
// moment, and fabricates a transaction hash.
type StubSender struct {
	Latency time.Duration
}

func NewStubSender() *StubSender {
	return &StubSender{Latency: 500 * time.Millisecond}
}

func (s *StubSender) SendToken(ctx context.Context, req TransferRequest) (string, error) {
	log.Printf("stub sender: transferring token %d on %s from %s to user %s", req.TokenID, req.Network, req.FromWallet, req.ToUser)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(s.Latency):
	}

	txHash := fmt.Sprintf("0xstub%d", time.Now().UnixNano())
	log.Printf("stub sender: token %d sent, tx=%s", req.TokenID, txHash)
	return txHash, nil
}
