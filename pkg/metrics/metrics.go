// Package metrics records workflow execution metrics with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flow"

// Status labels recorded for every node call.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Collector holds the engine metrics. A nil *Collector records nothing.
//
// Metrics (all namespaced "flow_"):
//   - node_calls_total{node,status}: node invocations by outcome.
//   - node_duration_seconds{status}: node execution time.
//   - retries_total{node}: TryUntil candidates that failed with a retryable error.
//   - captured_errors_total{node}: errors recorded by CaptureErrors.
//   - parallel_inflight: parallel map workers currently running.
type Collector struct {
	nodeCalls      *prometheus.CounterVec
	nodeDuration   *prometheus.HistogramVec
	retries        *prometheus.CounterVec
	capturedErrors *prometheus.CounterVec
	inflight       prometheus.Gauge
}

// New registers the engine metrics with registry. A nil registry uses the
// Prometheus default registerer.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		nodeCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_calls_total",
			Help:      "Node invocations by outcome",
		}, []string{"node", "status"}),
		nodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Node execution time",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"status"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Failed TryUntil candidates",
		}, []string{"node"}),
		capturedErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captured_errors_total",
			Help:      "Errors recorded by CaptureErrors blocks",
		}, []string{"node"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parallel_inflight",
			Help:      "Parallel map workers currently running",
		}),
	}
}

// ObserveNode records the outcome of a node call.
func (c *Collector) ObserveNode(node, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.nodeCalls.WithLabelValues(node, status).Inc()
	c.nodeDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Retry records a failed TryUntil candidate.
func (c *Collector) Retry(node string) {
	if c == nil {
		return
	}
	c.retries.WithLabelValues(node).Inc()
}

// CapturedError records an error collected by a CaptureErrors block.
func (c *Collector) CapturedError(node string) {
	if c == nil {
		return
	}
	c.capturedErrors.WithLabelValues(node).Inc()
}

// WorkerStarted increments the inflight worker gauge.
func (c *Collector) WorkerStarted() {
	if c == nil {
		return
	}
	c.inflight.Inc()
}

// WorkerFinished decrements the inflight worker gauge.
func (c *Collector) WorkerFinished() {
	if c == nil {
		return
	}
	c.inflight.Dec()
}
