package aggregate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// partitionFetches tracks partition requests by collection.
	partitionFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_partition_fetches_total",
		Help: "Total number of partition fetches by collection",
	}, []string{"collection"})

	// partitionFailures tracks swallowed partition failures.
	partitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregator_partition_failures_total",
		Help: "Total number of failed partition fetches by collection",
	}, []string{"collection"})

	// resolveDuration tracks page resolution latency per mode.
	resolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregator_resolve_duration_seconds",
		Help:    "Time taken to resolve one page by mode",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"mode"}) // mode: single_source, multi_source, empty_scope

	// partitionsPerResolve tracks the fan-out width of multi-source merges.
	partitionsPerResolve = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregator_partitions_per_resolve",
		Help:    "Number of partitions fanned out per multi-source resolve",
		Buckets: []float64{2, 3, 5, 10, 20, 50},
	})

	// mergedItems tracks the size of merged multi-source result sets.
	mergedItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregator_merged_items_count",
		Help:    "Total items merged across partitions before slicing",
		Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
	})

	// staleDiscards tracks envelopes rejected by the result slot because a
	// newer resolution had already superseded them.
	staleDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregator_stale_responses_discarded_total",
		Help: "Total number of stale resolutions discarded by the result slot",
	})
)

// MetricsRecorder provides methods to record aggregation metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordPartitionFetch records one partition request.
func (m *MetricsRecorder) RecordPartitionFetch(collection string) {
	partitionFetches.WithLabelValues(collection).Inc()
}

// RecordPartitionFailure records one swallowed partition failure.
func (m *MetricsRecorder) RecordPartitionFailure(collection string) {
	partitionFailures.WithLabelValues(collection).Inc()
}

// RecordResolve records the latency of one page resolution.
func (m *MetricsRecorder) RecordResolve(mode string, duration time.Duration) {
	resolveDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordMerge records the shape of one multi-source merge.
func (m *MetricsRecorder) RecordMerge(partitions, totalItems int) {
	partitionsPerResolve.Observe(float64(partitions))
	mergedItems.Observe(float64(totalItems))
}

// RecordStaleDiscard records one stale resolution discarded by a slot.
func (m *MetricsRecorder) RecordStaleDiscard() {
	staleDiscards.Inc()
}
