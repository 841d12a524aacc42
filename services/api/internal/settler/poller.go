package settler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/domain"
)

// OutboxStore is the poller's view of persistence.
type OutboxStore interface {
	ListUnprocessed(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	GetClaim(ctx context.Context, claimID string) (domain.Claim, error)
	MarkProcessed(ctx context.Context, eventID string, at time.Time) error
}

// Finalizer reports a terminal outcome for one claim.
type Finalizer interface {
	Finalize(ctx context.Context, claimID string, out app.Outcome) (domain.Claim, error)
}

type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Backoff     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	return c
}

// Poller scans unprocessed outbox events on an interval, submits each
// transfer with bounded retries, and finalizes the claim with the terminal
// outcome. Delivery is at-least-once: an event re-scanned after a crash whose
// claim already reached a terminal state is marked processed without another
// submission, and the finalizer's PENDING-only guard backstops any race this
// check leaves open.
type Poller struct {
	store     OutboxStore
	finalizer Finalizer
	sender    ChainSender
	clock     clock.Clock
	logger    *log.Logger
	cfg       Config
}

func NewPoller(store OutboxStore, finalizer Finalizer, sender ChainSender, clk clock.Clock, logger *log.Logger, cfg Config) *Poller {
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		store:     store,
		finalizer: finalizer,
		sender:    sender,
		clock:     clk,
		logger:    logger,
		cfg:       cfg.withDefaults(),
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := p.DrainOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Printf("settler: drain failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// DrainOnce processes one batch of unprocessed events.
func (p *Poller) DrainOnce(ctx context.Context) error {
	events, err := p.store.ListUnprocessed(ctx, p.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, event := range events {
		if err := p.process(ctx, event); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Printf("settler: event %s: %v", event.ID, err)
		}
	}
	return nil
}

func (p *Poller) process(ctx context.Context, event domain.OutboxEvent) error {
	if event.EventType != domain.EventTypeSendToChain {
		p.logger.Printf("settler: skipping unknown event type %q (event %s)", event.EventType, event.ID)
		return p.store.MarkProcessed(ctx, event.ID, p.clock.Now())
	}

	claim, err := p.store.GetClaim(ctx, event.AggregateID)
	if err != nil {
		return fmt.Errorf("load claim %s: %w", event.AggregateID, err)
	}
	if claim.Terminal() {
		// Already finalized through another path; nothing left to submit.
		return p.store.MarkProcessed(ctx, event.ID, p.clock.Now())
	}

	var payload domain.TransferPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		_, ferr := p.finalizer.Finalize(ctx, claim.ID, app.Outcome{
			Kind:  app.OutcomeFailure,
			Error: fmt.Sprintf("malformed payload: %v", err),
		})
		return ferr
	}

	txHash, sendErr := p.send(ctx, payload)

	outcome := app.Outcome{Kind: app.OutcomeSuccess, TxHash: txHash}
	if sendErr != nil {
		if errors.Is(sendErr, context.Canceled) {
			// Leave the event unprocessed; the next scan retries it.
			return sendErr
		}
		outcome = app.Outcome{Kind: app.OutcomeFailure, Error: sendErr.Error()}
	}

	if _, err := p.finalizer.Finalize(ctx, claim.ID, outcome); err != nil {
		if errors.Is(err, domain.ErrClaimAlreadyFinalized) {
			// Lost the race to another finalizer; the winning transition
			// marked the event.
			return nil
		}
		return fmt.Errorf("finalize claim %s: %w", claim.ID, err)
	}
	return nil
}

// send attempts the transfer with linear backoff between attempts.
func (p *Poller) send(ctx context.Context, payload domain.TransferPayload) (string, error) {
	req := TransferRequest{
		MintUnitID: payload.MintUnitID,
		FromWallet: payload.FromWallet,
		ToUser:     payload.ToUser,
		TokenID:    payload.TokenID,
		Contract:   payload.Contract,
		Network:    payload.Network,
	}

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		txHash, err := p.sender.SendToken(ctx, req)
		if err == nil {
			return txHash, nil
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		lastErr = err
		p.logger.Printf("settler: send attempt %d/%d for unit %s failed: %v", attempt, p.cfg.MaxAttempts, req.MintUnitID, err)

		if attempt < p.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * p.cfg.Backoff):
			}
		}
	}
	return "", fmt.Errorf("send failed after %d attempts: %w", p.cfg.MaxAttempts, lastErr)
}
