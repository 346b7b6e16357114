package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend traffic
var (
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "origin_history_pages_fetched_total",
			Help: "History pages requested from a ledger backend, by outcome",
		},
		[]string{"backend", "outcome"},
	)

	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origin_history_page_fetch_duration_seconds",
			Help:    "Time taken to fetch one history page including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	RecordsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "origin_history_records_fetched_total",
			Help: "History records received from a ledger backend",
		},
		[]string{"backend"},
	)
)

// Resolution results
var (
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "origin_resolutions_total",
			Help: "Account origin lookups by result kind",
		},
		[]string{"backend", "kind"},
	)

	PagesPerResolution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "origin_pages_per_resolution",
		Help:    "Number of history pages walked by a successful lookup",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500, 1000},
	})

	OriginsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "origin_lookups_recorded_total",
		Help: "Lookups appended to the origin log",
	})
)

// Outcome labels for PagesFetched
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Batch lookups
var (
	BatchWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "origin_batch_workers",
		Help: "Number of workers in the running batch lookup (0 when idle)",
	})

	BatchPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "origin_batch_pending_results",
		Help: "Finished lookups held back until earlier accounts complete",
	})
)
