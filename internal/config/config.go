package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/retry"
)

// Supported ledger backends
const (
	BackendSolana  = "solana"
	BackendHorizon = "horizon"
)

type Config struct {
	// Ledger backend: solana or horizon
	Backend string

	// Solana JSON-RPC endpoint and commitment level
	RPCServerURL string
	Commitment   string

	// Stellar Horizon server
	HorizonURL string

	// Account to resolve (CLI only)
	AccountAddress string

	// Page budget of a single lookup
	MaxPages int

	// Client side throttling and per-request timeout
	RequestsPerSecond float64
	Burst             int
	RequestTimeout    time.Duration

	LogLevel string

	// Optional lookup log; empty disables it
	DatabaseURL string

	// HTTP API port
	APIPort int

	Retry retry.Config
}

// Load reads the configuration from the environment. Call godotenv.Load
// first to pick up a .env file.
func Load() *Config {
	return &Config{
		Backend:           strings.ToLower(getEnv("LEDGER_BACKEND", BackendSolana)),
		RPCServerURL:      getEnv("RPC_URL", "https://api.mainnet-beta.solana.com"),
		Commitment:        getEnv("RPC_COMMITMENT", "finalized"),
		HorizonURL:        getEnv("HORIZON_URL", "https://horizon.stellar.org"),
		AccountAddress:    getEnv("ACCOUNT_ADDRESS", os.Getenv("TOKEN_MINT_PUBKEY")),
		MaxPages:          getEnvAsInt("RESOLVER_MAX_PAGES", origin.DefaultMaxPages),
		RequestsPerSecond: getEnvAsFloat("RPC_REQUESTS_PER_SECOND", 5),
		Burst:             getEnvAsInt("RPC_BURST", 1),
		RequestTimeout:    time.Duration(getEnvAsInt("RPC_TIMEOUT_SEC", 30)) * time.Second,
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		APIPort:           getEnvAsInt("API_PORT", 8080),
		Retry:             retry.LoadConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSolana:
		if c.RPCServerURL == "" {
			return fmt.Errorf("RPC_URL is required for the solana backend")
		}
	case BackendHorizon:
		if c.HorizonURL == "" {
			return fmt.Errorf("HORIZON_URL is required for the horizon backend")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q (want %s or %s)", c.Backend, BackendSolana, BackendHorizon)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("RESOLVER_MAX_PAGES must be positive, got %d", c.MaxPages)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("RPC_TIMEOUT_SEC must be positive, got %s", c.RequestTimeout)
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT out of range: %d", c.APIPort)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	val, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultVal
	}
	return val
}
