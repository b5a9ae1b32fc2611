// Package metrics provides Prometheus metrics for the mit tooling
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the mit tooling
type Metrics struct {
	// Tree merge metrics
	TreeAddsTotal    *prometheus.CounterVec
	TreeAddDuration  prometheus.Histogram
	TreeNodesTotal   prometheus.Gauge
	TreeDeletedTotal prometheus.Gauge
	TreeClassesTotal prometheus.Gauge

	// Query metrics
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	QueryResults      prometheus.Counter
	FilterParsesTotal *prometheus.CounterVec

	// Codec metrics
	DecodedObjectsTotal prometheus.Counter
	EncodedObjectsTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{}

	// Tree merge metrics
	m.TreeAddsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mittree_tree_adds_total",
			Help: "Total number of tree merge operations",
		},
		[]string{"status"},
	)

	m.TreeAddDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mittree_tree_add_duration_seconds",
			Help:    "Duration of tree merge operations in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	m.TreeNodesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mittree_tree_nodes_total",
			Help: "Total number of nodes in the tree",
		},
	)

	m.TreeDeletedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mittree_tree_deleted_total",
			Help: "Number of tree nodes marked deleted",
		},
	)

	m.TreeClassesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mittree_tree_classes_total",
			Help: "Number of distinct classes indexed in the tree",
		},
	)

	// Query metrics
	m.QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mittree_queries_total",
			Help: "Total number of executed queries",
		},
		[]string{"kind", "status"},
	)

	m.QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mittree_query_duration_seconds",
			Help:    "Duration of query execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	m.QueryResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mittree_query_results_total",
			Help: "Total number of query result objects returned",
		},
	)

	m.FilterParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mittree_filter_parses_total",
			Help: "Total number of filter expression parses",
		},
		[]string{"status"},
	)

	// Codec metrics
	m.DecodedObjectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mittree_decoded_objects_total",
			Help: "Total number of decoded managed objects",
		},
	)

	m.EncodedObjectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mittree_encoded_objects_total",
			Help: "Total number of encoded managed objects",
		},
	)

	return m
}

// RecordTreeAdd records one tree merge operation
func (m *Metrics) RecordTreeAdd(status string, duration time.Duration) {
	m.TreeAddsTotal.WithLabelValues(status).Inc()
	m.TreeAddDuration.Observe(duration.Seconds())
}

// RecordQuery records one query execution
func (m *Metrics) RecordQuery(kind string, status string, duration time.Duration, resultCount int) {
	m.QueriesTotal.WithLabelValues(kind, status).Inc()
	m.QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.QueryResults.Add(float64(resultCount))
}

// RecordFilterParse records one filter expression parse
func (m *Metrics) RecordFilterParse(status string) {
	m.FilterParsesTotal.WithLabelValues(status).Inc()
}

// UpdateTreeStats updates the tree gauges
func (m *Metrics) UpdateTreeStats(nodes, deleted, classes int) {
	m.TreeNodesTotal.Set(float64(nodes))
	m.TreeDeletedTotal.Set(float64(deleted))
	m.TreeClassesTotal.Set(float64(classes))
}
