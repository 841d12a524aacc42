package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/config"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/settler"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/storage/postgres"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := log.Default()

	cfg, err := config.LoadSettler(logger)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	outboxRepo := postgres.NewOutboxRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	finalizeSvc := app.NewFinalizeService(settlementRepo, clock.NewSystem())

	poller := settler.NewPoller(outboxRepo, finalizeSvc, settler.NewStubSender(), clock.NewSystem(), logger, settler.Config{
		Interval:    cfg.PollInterval,
		BatchSize:   cfg.BatchSize,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.SendBackoff,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reclaimLoop(ctx, finalizeSvc, cfg.ReclaimEvery, cfg.StaleAfter, logger)

	log.Printf("settler polling every %s", cfg.PollInterval)
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("poller stopped: %v", err)
	}
	log.Printf("settler stopped")
}

// reclaimLoop periodically fails PENDING claims whose settlement never
// reported back, so their units return to the allocatable pool.
func reclaimLoop(ctx context.Context, svc *app.FinalizeService, every, staleAfter time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := svc.ReclaimStale(ctx, staleAfter)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Printf("reclaim stale claims: %v", err)
			}
			continue
		}
		if n > 0 {
			logger.Printf("reclaimed %d stale claims", n)
		}
	}
}
