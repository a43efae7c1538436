package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsNodeCalls(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	c := New(registry)

	c.ObserveNode("Add", StatusCompleted, time.Millisecond)
	c.ObserveNode("Add", StatusCompleted, time.Millisecond)
	c.ObserveNode("Add", StatusFailed, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(c.nodeCalls.WithLabelValues("Add", StatusCompleted)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.nodeCalls.WithLabelValues("Add", StatusFailed)))
	require.Equal(t, 2, testutil.CollectAndCount(c.nodeDuration))
}

func TestCollectorCountersAndGauge(t *testing.T) {
	t.Parallel()

	c := New(prometheus.NewRegistry())

	c.Retry("TryUntil")
	c.CapturedError("CaptureErrors")
	c.CapturedError("CaptureErrors")
	c.WorkerStarted()
	c.WorkerStarted()
	c.WorkerFinished()

	require.Equal(t, 1.0, testutil.ToFloat64(c.retries.WithLabelValues("TryUntil")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.capturedErrors.WithLabelValues("CaptureErrors")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.inflight))
}

func TestNilCollectorIsSafe(t *testing.T) {
	t.Parallel()

	var c *Collector
	c.ObserveNode("Add", StatusCompleted, time.Second)
	c.Retry("x")
	c.CapturedError("x")
	c.WorkerStarted()
	c.WorkerFinished()
}
