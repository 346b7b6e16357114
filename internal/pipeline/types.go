package pipeline

import (
	"time"

	"ledgerorigin/internal/origin"
)

// Job is one account of a batch, Index is its position in the input
type Job struct {
	Index   int
	Address string
}

// Result is the outcome of one Job. Exactly one of Origin and Err is set.
type Result struct {
	Index    int
	Address  string
	Origin   *origin.Origin
	Err      error
	Duration time.Duration
	WorkerID int
}

// Config contains configuration for a batch run
type Config struct {
	WorkerCount int // 0 means DefaultWorkerCount
	BufferSize  int
}

// DefaultWorkerCount keeps concurrent lookups low; every worker shares the
// backend's rate limiter so more workers mostly mean more waiting.
const DefaultWorkerCount = 4
