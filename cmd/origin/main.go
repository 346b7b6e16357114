package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ledgerorigin/internal/config"
	"ledgerorigin/internal/history"
	"ledgerorigin/internal/integration/rpc_backend"
	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/pipeline"
	"ledgerorigin/internal/services"
	"ledgerorigin/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is the whole CLI. It returns the exit code so deferred cleanup always
// happens before the process exits.
func run(args []string, stdout io.Writer) int {
	// 1. Load configuration, flags override the environment
	cfg := config.Load()

	flags := flag.NewFlagSet("origin", flag.ContinueOnError)
	account := flags.String("account", cfg.AccountAddress, "account address to resolve (comma-separated for a batch)")
	backendName := flags.String("backend", cfg.Backend, "ledger backend: solana or horizon")
	rpcURL := flags.String("rpc", "", "RPC endpoint (Horizon URL for the horizon backend)")
	maxPages := flags.Int("max-pages", cfg.MaxPages, "maximum pages fetched per lookup")
	record := flags.Bool("record", false, "append the result to the lookup log (needs DATABASE_URL)")
	workers := flags.Int("workers", pipeline.DefaultWorkerCount, "concurrent lookups for a batch")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg.Backend = strings.ToLower(*backendName)
	cfg.MaxPages = *maxPages
	if *rpcURL != "" {
		if cfg.Backend == config.BackendHorizon {
			cfg.HorizonURL = *rpcURL
		} else {
			cfg.RPCServerURL = *rpcURL
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("❌ Invalid configuration: %v", err)
		return 1
	}
	accounts := splitAccounts(*account)
	if len(accounts) == 0 {
		log.Print("❌ An account is required (-account or ACCOUNT_ADDRESS)")
		return 1
	}

	// 2. Configure logger, stdout carries only results
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	slog.Debug("Configuration loaded",
		"backend", cfg.Backend,
		"rpc_server", cfg.RPCServerURL,
		"horizon", cfg.HorizonURL,
		"max_pages", cfg.MaxPages,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Ledger backend
	backend, err := rpc_backend.NewLedgerBuilder(cfg).Build()
	if err != nil {
		log.Printf("❌ Failed to create %s backend: %v", cfg.Backend, err)
		return 1
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	// 4. Optional lookup log
	var repository storage.Repository
	if *record {
		if cfg.DatabaseURL == "" {
			log.Print("❌ -record needs DATABASE_URL")
			return 1
		}
		repo, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("❌ Failed to connect to database: %v", err)
			return 1
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Printf("❌ Failed to prepare lookup log: %v", err)
			return 1
		}
		repository = repo
	}

	resolver := origin.NewResolver(backend, origin.WithMaxPages(cfg.MaxPages))
	svc := services.NewOriginService(backend, resolver, repository)

	if len(accounts) == 1 {
		result, err := svc.Resolve(ctx, accounts[0])
		if err != nil {
			return report(accounts[0], err)
		}
		printOrigin(stdout, accounts[0], result)
		return 0
	}

	exitCode := 0
	batch := pipeline.NewPipeline(pipeline.Config{WorkerCount: *workers}, svc)
	err = batch.Run(ctx, accounts, func(r *pipeline.Result) {
		if r.Err != nil {
			exitCode = report(r.Address, r.Err)
			return
		}
		printOrigin(stdout, r.Address, r.Origin)
	})
	if err != nil {
		slog.Error("Batch lookup interrupted", "error", err)
		exitCode = 1
	}
	return exitCode
}

func splitAccounts(raw string) []string {
	var accounts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			accounts = append(accounts, part)
		}
	}
	return accounts
}

// report logs a failed lookup and returns the exit code
func report(account string, err error) int {
	slog.Error("Failed to resolve account origin",
		"kind", origin.KindName(err),
		"account", account,
		"error", err,
	)
	return 1
}

func printOrigin(w io.Writer, account string, result *origin.Origin) {
	fmt.Fprintf(w, "%s creation date:\n", account)
	fmt.Fprintf(w, "UTC - %s\n", result.Time.Format(history.DateTimeLayout))
}
