// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_rows_loaded_total",
			Help: "Total number of source rows fully loaded",
		},
	)

	RowsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_rows_failed_total",
			Help: "Total number of source rows whose core unit failed",
		},
	)

	RowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etl_rows_skipped_total",
			Help: "Total number of source rows skipped by checkpoint resume",
		},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etl_stage_failures_total",
			Help: "Dependent-entity stage failures by stage name",
		},
		[]string{"stage"},
	)

	RowDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "etl_row_duration_seconds",
			Help: "Duration of single-row processing in seconds",
		},
	)
)
