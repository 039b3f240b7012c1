// Package metrics holds the Prometheus instrumentation of a stream client.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "censusstream"
	subsystem = "client"
)

// Drop reasons for FrameDropped.
const (
	ReasonInvalidJSON = "invalid_json"
)

// Metrics tracks one client. A nil *Metrics is valid and records nothing.
type Metrics struct {
	framesReceived   *prometheus.CounterVec // Decoded frames by envelope type
	framesDropped    *prometheus.CounterVec // Dropped frames by reason
	eventsEmitted    *prometheus.CounterVec // Re-emitted events by name
	controlSent      *prometheus.CounterVec // Control frames written by action
	controlFailed    *prometheus.CounterVec // Control frames that never reached the socket
	connectionStatus prometheus.Gauge       // 1 while connected
}

// New creates the client metrics and registers them with registerer.
// Returns nil, nil when registerer is nil (metrics disabled).
//
// Collectors already registered by another client are reused, so several
// clients can share one registry.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		return nil, nil
	}

	m := &Metrics{
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_received_total",
			Help:      "Inbound frames decoded, by envelope type",
		}, []string{"type"}),

		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_dropped_total",
			Help:      "Inbound frames dropped before dispatch, by reason",
		}, []string{"reason"}),

		eventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_emitted_total",
			Help:      "Events re-emitted to local listeners, by event name",
		}, []string{"event"}),

		controlSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "control_frames_sent_total",
			Help:      "Control frames written to the socket, by action",
		}, []string{"action"}),

		controlFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "control_frames_failed_total",
			Help:      "Control frames that could not be queued or written, by action",
		}, []string{"action"}),

		connectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connected",
			Help:      "Whether the client connection is open (1) or not (0)",
		}),
	}

	var err error
	if m.framesReceived, err = register(registerer, m.framesReceived); err != nil {
		return nil, err
	}
	if m.framesDropped, err = register(registerer, m.framesDropped); err != nil {
		return nil, err
	}
	if m.eventsEmitted, err = register(registerer, m.eventsEmitted); err != nil {
		return nil, err
	}
	if m.controlSent, err = register(registerer, m.controlSent); err != nil {
		return nil, err
	}
	if m.controlFailed, err = register(registerer, m.controlFailed); err != nil {
		return nil, err
	}
	if m.connectionStatus, err = register(registerer, m.connectionStatus); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, c C) (C, error) {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// FrameReceived counts a decoded frame.
func (m *Metrics) FrameReceived(messageType string) {
	if m == nil {
		return
	}
	if messageType == "" {
		messageType = "unknown"
	}
	m.framesReceived.WithLabelValues(messageType).Inc()
}

// FrameDropped counts a frame dropped for reason.
func (m *Metrics) FrameDropped(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

// EventEmitted counts an event emitted to listeners.
func (m *Metrics) EventEmitted(name string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(name).Inc()
}

// ControlSent counts a control frame written to the socket.
func (m *Metrics) ControlSent(action string) {
	if m == nil {
		return
	}
	m.controlSent.WithLabelValues(action).Inc()
}

// ControlFailed counts a control frame that was lost.
func (m *Metrics) ControlFailed(action string) {
	if m == nil {
		return
	}
	m.controlFailed.WithLabelValues(action).Inc()
}

// SetConnected records the connection state.
func (m *Metrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connectionStatus.Set(1)
	} else {
		m.connectionStatus.Set(0)
	}
}
