package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"ledgerorigin/internal/metrics"
	"ledgerorigin/internal/services"
)

// Pipeline resolves a batch of accounts with a pool of workers and reports
// the results in input order
type Pipeline struct {
	config  Config
	origins services.OriginResolver
}

// NewPipeline creates a new pipeline instance
func NewPipeline(config Config, origins services.OriginResolver) *Pipeline {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultWorkerCount
	}
	if config.BufferSize <= 0 {
		config.BufferSize = config.WorkerCount
	}
	return &Pipeline{config: config, origins: origins}
}

// Run resolves every address and calls emit once per address, in input
// order, from a single goroutine. It returns when all addresses are done or
// ctx is cancelled; after cancellation some addresses may never be emitted.
func (p *Pipeline) Run(ctx context.Context, addresses []string, emit func(*Result)) error {
	workerCount := p.config.WorkerCount
	if workerCount > len(addresses) {
		workerCount = len(addresses)
	}
	if workerCount == 0 {
		return ctx.Err()
	}

	slog.Info("🚀 Starting batch lookup",
		"accounts", len(addresses),
		"worker_count", workerCount,
		"backend", p.origins.Backend(),
	)
	metrics.BatchWorkerCount.Set(float64(workerCount))
	defer func() {
		metrics.BatchWorkerCount.Set(0)
		metrics.BatchPending.Set(0)
	}()

	jobs := make(chan Job, p.config.BufferSize)
	results := make(chan *Result, p.config.BufferSize)

	// Feed jobs
	go func() {
		defer close(jobs)
		for i, address := range addresses {
			select {
			case jobs <- Job{Index: i, Address: address}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			p.runWorker(ctx, w, jobs, results)
		}(NewWorker(i, p.origins))
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	orderer := NewOrderer(emit)
	for result := range results {
		orderer.ProcessResult(result)
	}

	if err := ctx.Err(); err != nil {
		slog.Warn("🛑 Batch lookup cancelled",
			"completed", orderer.GetNextExpected(),
			"accounts", len(addresses),
		)
		return err
	}
	return nil
}

// runWorker runs a single worker goroutine
func (p *Pipeline) runWorker(ctx context.Context, worker *Worker, jobs <-chan Job, results chan<- *Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}

			result := worker.Process(ctx, job)

			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}
