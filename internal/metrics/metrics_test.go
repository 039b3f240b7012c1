package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilRegistererDisablesMetrics(t *testing.T) {
	t.Parallel()

	m, err := New(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	// A nil *Metrics must be safe to use
	m.FrameReceived("heartbeat")
	m.FrameDropped(ReasonInvalidJSON)
	m.EventEmitted("data")
	m.ControlSent("subscribe")
	m.ControlFailed("subscribe")
	m.SetConnected(true)
}

func TestCounters(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := New(registry)
	require.NoError(t, err)

	m.FrameReceived("heartbeat")
	m.FrameReceived("heartbeat")
	m.FrameReceived("")
	m.FrameDropped(ReasonInvalidJSON)
	m.EventEmitted("Death")
	m.ControlSent("subscribe")
	m.ControlFailed("clearSubscribe")
	m.SetConnected(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesReceived.WithLabelValues("heartbeat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesReceived.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesDropped.WithLabelValues(ReasonInvalidJSON)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsEmitted.WithLabelValues("Death")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.controlSent.WithLabelValues("subscribe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.controlFailed.WithLabelValues("clearSubscribe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectionStatus))

	m.SetConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connectionStatus))
}

func TestSharedRegistry(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	first, err := New(registry)
	require.NoError(t, err)
	second, err := New(registry)
	require.NoError(t, err)

	first.ControlSent("subscribe")
	second.ControlSent("subscribe")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.controlSent.WithLabelValues("subscribe")))
}
