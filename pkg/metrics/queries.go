package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// QueryDurationBuckets are tuned for single statements, 1ms to about 8s.
var QueryDurationBuckets = prometheus.ExponentialBuckets(0.001, 2, 14)

// QueryMetrics counts and times statement executions and tracks open
// connections, labelled by driver. It satisfies database.Observer.
type QueryMetrics struct {
	queries     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	connections *prometheus.GaugeVec
}

// NewQueryMetrics creates unregistered collectors named
// <namespace>_queries_total, <namespace>_query_duration_seconds and
// <namespace>_open_connections.
func NewQueryMetrics(namespace string) *QueryMetrics {
	return &QueryMetrics{
		queries: createCounterVec(
			prometheus.BuildFQName(namespace, "", "queries_total"),
			"Number of executed statements.",
			[]string{"driver", "kind", "status"},
		),
		duration: createHistogramVec(
			prometheus.BuildFQName(namespace, "", "query_duration_seconds"),
			"Time spent preparing and executing statements.",
			[]string{"driver", "kind"},
			QueryDurationBuckets,
		),
		connections: createGaugeVec(
			prometheus.BuildFQName(namespace, "", "open_connections"),
			"Number of open facade connections.",
			[]string{"driver"},
		),
	}
}

// Collectors returns the collectors for registration.
func (q *QueryMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{q.queries, q.duration, q.connections}
}

// ObserveQuery records one execution.
func (q *QueryMetrics) ObserveQuery(driver, kind string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	q.queries.WithLabelValues(driver, kind, status).Inc()
	q.duration.WithLabelValues(driver, kind).Observe(duration.Seconds())
}

// ConnectionOpened increments the open connection gauge for driver.
func (q *QueryMetrics) ConnectionOpened(driver string) {
	q.connections.WithLabelValues(driver).Inc()
}

// ConnectionClosed decrements the open connection gauge for driver.
func (q *QueryMetrics) ConnectionClosed(driver string) {
	q.connections.WithLabelValues(driver).Dec()
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
}

func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
}
