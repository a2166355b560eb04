package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deltascan_scans_started_total",
			Help: "Total number of log-replay scans started",
		},
	)

	BatchesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deltascan_batches_processed_total",
			Help: "Total number of action batches run through the log-replay scanner",
		},
		[]string{"batch_kind"},
	)

	BatchProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deltascan_batch_process_duration_seconds",
			Help:    "Duration of a single batch's log-replay processing",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~0.2s
		},
		[]string{"batch_kind"},
	)

	RowsSelectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deltascan_rows_selected_total",
			Help: "Total number of rows surviving skipping and dedup across all batches",
		},
	)

	RowsPrunedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deltascan_rows_pruned_total",
			Help: "Total number of rows dropped by the data-skipping filter or partition pruning",
			ConstLabels: nil,
		},
		[]string{"reason"},
	)

	RowsDedupedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deltascan_rows_deduped_total",
			Help: "Total number of rows dropped because their file-action key was already seen",
		},
	)

	ScanErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deltascan_scan_errors_total",
			Help: "Total number of scan errors, by kind",
		},
		[]string{"kind"},
	)
)
