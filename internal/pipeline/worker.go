package pipeline

import (
	"context"
	"log/slog"
	"time"

	"ledgerorigin/internal/origin"
	"ledgerorigin/internal/services"
)

// Worker resolves accounts one at a time
type Worker struct {
	id      int
	origins services.OriginResolver
}

// NewWorker creates a new pipeline worker
func NewWorker(id int, origins services.OriginResolver) *Worker {
	return &Worker{id: id, origins: origins}
}

// Process resolves a single job. Failures are carried in the Result.
func (w *Worker) Process(ctx context.Context, job Job) *Result {
	start := time.Now()

	slog.Debug("Worker resolving account",
		"worker_id", w.id,
		"index", job.Index,
		"account", job.Address,
	)

	result, err := w.origins.Resolve(ctx, job.Address)
	duration := time.Since(start)

	if err != nil {
		slog.Debug("Worker lookup failed",
			"worker_id", w.id,
			"account", job.Address,
			"kind", origin.KindName(err),
			"duration_ms", duration.Milliseconds(),
		)
	}

	return &Result{
		Index:    job.Index,
		Address:  job.Address,
		Origin:   result,
		Err:      err,
		Duration: duration,
		WorkerID: w.id,
	}
}
