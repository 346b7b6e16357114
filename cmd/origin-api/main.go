package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerorigin/internal/api"
	"ledgerorigin/internal/config"
	"ledgerorigin/internal/integration/rpc_backend"
	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/services"
	"ledgerorigin/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🌟 Starting Ledger Origin API...")

	// 1. Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 2. Configure logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"backend", cfg.Backend,
		"rpc_server", cfg.RPCServerURL,
		"horizon", cfg.HorizonURL,
		"max_pages", cfg.MaxPages,
		"log_level", cfg.LogLevel,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize the lookup log when a database is configured
	var repository storage.Repository
	if cfg.DatabaseURL != "" {
		repo, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("❌ Failed to prepare lookup log: %v", err)
		}
		repository = repo
		slog.Info("Database connected successfully")
	} else {
		slog.Warn("DATABASE_URL not set, lookup log disabled")
	}

	// 4. Ledger backend and resolver
	backend, err := rpc_backend.NewLedgerBuilder(cfg).Build()
	if err != nil {
		log.Fatalf("❌ Failed to create %s backend: %v", cfg.Backend, err)
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	resolver := origin.NewResolver(backend, origin.WithMaxPages(cfg.MaxPages))
	originService := services.NewOriginService(backend, resolver, repository)

	// 5. Start API server
	server := api.NewServer(cfg.APIPort, originService)
	if err := server.Start(); err != nil {
		log.Fatalf("❌ Failed to start API server: %v", err)
	}

	// 6. Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	slog.Warn("Interrupt received, shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping API server", "error", err)
	}

	slog.Info("Ledger Origin API stopped")
}
