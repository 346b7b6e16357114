package rpc_backend

import (
	"time"

	"ledgerorigin/internal/retry"
)

// ClientTimeoutConfig controls per-request timeout and client side throttling
type ClientTimeoutConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// ClientConfig is everything needed to build a history backend
type ClientConfig struct {
	Kind          string // "solana" or "horizon"
	Endpoint      string
	Commitment    string
	TimeoutConfig ClientTimeoutConfig
	Retry         retry.Config
}
