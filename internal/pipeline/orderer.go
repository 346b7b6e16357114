package pipeline

import (
	"log/slog"

	"ledgerorigin/internal/metrics"
)

// Orderer receives results from workers and hands them on in input order.
// Workers finish out of order, so results ahead of the next expected index
// are buffered.
type Orderer struct {
	emit func(*Result)

	nextExpected int
	pending      map[int]*Result
}

// NewOrderer creates a new orderer that starts at index 0
func NewOrderer(emit func(*Result)) *Orderer {
	return &Orderer{
		emit:    emit,
		pending: make(map[int]*Result),
	}
}

// ProcessResult buffers result and emits every result that is now in sequence
func (o *Orderer) ProcessResult(result *Result) {
	o.pending[result.Index] = result

	slog.Debug("Orderer received result",
		"index", result.Index,
		"worker_id", result.WorkerID,
		"pending_count", len(o.pending),
		"next_expected", o.nextExpected,
	)

	for {
		data, exists := o.pending[o.nextExpected]
		if !exists {
			break
		}

		o.emit(data)
		delete(o.pending, o.nextExpected)
		o.nextExpected++
	}

	metrics.BatchPending.Set(float64(len(o.pending)))
}

// GetPendingCount returns the number of results waiting for earlier ones
func (o *Orderer) GetPendingCount() int {
	return len(o.pending)
}

// GetNextExpected returns the next index we're waiting for
func (o *Orderer) GetNextExpected() int {
	return o.nextExpected
}
