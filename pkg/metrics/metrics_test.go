package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInitializesOnce(t *testing.T) {
	m := Get()
	require.NotNil(t, m)
	assert.Same(t, m, Get())
}

func TestRecordSolveOperation(t *testing.T) {
	m := Get()

	m.RecordSolveOperation("scaling", true, 50*time.Millisecond, 23.0)
	m.RecordSolveOperation("scaling", false, 10*time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolveOperationsTotal.WithLabelValues("scaling", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolveOperationsTotal.WithLabelValues("scaling", "error")))
	assert.Equal(t, 23.0, testutil.ToFloat64(m.MaxFlowValue.WithLabelValues("scaling")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := Get()

	m.RecordHTTPRequest("POST", "/api/v1/solve", "200", 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/solve", "200")))
}

func TestRecordCacheOperation(t *testing.T) {
	m := Get()

	m.RecordCacheOperation("get", "hit")
	m.RecordCacheOperation("get", "miss")
	m.RecordCacheOperation("get", "miss")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheOperationsTotal.WithLabelValues("get", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheOperationsTotal.WithLabelValues("get", "miss")))
}

func TestRuntimeCollector(t *testing.T) {
	c := NewRuntimeCollector("flownet_test", "")

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestTimer(t *testing.T) {
	m := Get()

	timer := NewTimer(m.SolveDuration, "ford_fulkerson")
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Duration(0))
}
