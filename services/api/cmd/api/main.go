package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/app"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/clock"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/config"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/internal/storage/postgres"
	transporthttp "github.com/SagarBarate/CleanNFT-sub000/services/api/internal/transport/http"
	"github.com/SagarBarate/CleanNFT-sub000/services/api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.LoadAPI(logger)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.AdminToken == "" {
		logger.Printf("WARN: ADMIN_TOKEN not set, admin endpoints are disabled")
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

	claimRepo := postgres.NewClaimRepository(pool)
	claimSvc := app.NewClaimService(claimRepo, clock.NewSystem())
	settlementRepo := postgres.NewSettlementRepository(pool)
	finalizeSvc := app.NewFinalizeService(settlementRepo, clock.NewSystem())
	inventoryRepo := postgres.NewInventoryRepository(pool)
	inventorySvc := app.NewInventoryService(inventoryRepo, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/claims", transporthttp.HandleCreateClaim(claimSvc))
	mux.Handle("/claims/manual", transporthttp.RequireAdmin(cfg.AdminToken, transporthttp.HandleManualClaim(claimSvc)))
	mux.Handle("/claims/", transporthttp.HandleFinalizeClaim(finalizeSvc))
	mux.Handle("/inventory/batch", transporthttp.RequireAdmin(cfg.AdminToken, transporthttp.HandleInventoryBatch(inventorySvc)))
	mux.Handle("/definitions", transporthttp.RequireAdmin(cfg.AdminToken, transporthttp.HandleDefinitions(inventorySvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
