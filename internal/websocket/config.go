package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/censusstream"
)

const (
	defaultSendBuffer   = 256
	defaultPingInterval = 54 * time.Second
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultReadLimit    = 10 * 1024 * 1024 // 10MB max inbound frame size
)

// RateLimitConfig paces the control frames a client writes
type RateLimitConfig struct {
	// MessagesPerSecond defines how many control frames can be written per second
	MessagesPerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if pacing is active
	Enabled bool
}

// DefaultRateLimitConfig returns the default rate limit configuration
// Allows 10 control frames per second with burst of 20
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MessagesPerSecond: 10,
		Burst:             20,
		Enabled:           true,
	}
}

// NoRateLimit returns a configuration with pacing disabled
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled: false,
	}
}

type binding struct {
	name     string
	listener censusstream.Listener
}

// Config holds everything a Client needs. Build it with NewConfig.
type Config struct {
	// Namespace selects the game environment.
	Namespace censusstream.Namespace
	// ServiceID is the census service ID, without the "s:" prefix.
	ServiceID string
	// Endpoint overrides censusstream.StreamEndpoint.
	Endpoint string

	// RateLimitConfig paces outbound control frames. If nil,
	// DefaultRateLimitConfig() is used.
	RateLimitConfig *RateLimitConfig

	// HandshakeTimeout bounds the WebSocket handshake. Zero means no timeout.
	HandshakeTimeout time.Duration
	// PingInterval is the keepalive ping period. Negative disables pings.
	PingInterval time.Duration
	// ReadTimeout closes the connection when nothing, pongs included, is
	// received for this long. Negative disables it.
	ReadTimeout time.Duration
	// WriteTimeout bounds each socket write.
	WriteTimeout time.Duration
	// SendBuffer is the number of control frames that can be queued.
	SendBuffer int

	// Dialer overrides the default dialer. HandshakeTimeout is ignored when set.
	Dialer *websocket.Dialer
	// Logger receives diagnostic output. Defaults to slog.Default().
	Logger *slog.Logger
	// MetricsRegisterer enables Prometheus metrics when set.
	MetricsRegisterer prometheus.Registerer

	listeners []binding
}

// NewConfig returns a configuration with defaults for the given environment
// and service ID.
func NewConfig(namespace censusstream.Namespace, serviceID string) *Config {
	return &Config{
		Namespace:       namespace,
		ServiceID:       serviceID,
		Endpoint:        censusstream.StreamEndpoint,
		RateLimitConfig: DefaultRateLimitConfig(),
		PingInterval:    defaultPingInterval,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		SendBuffer:      defaultSendBuffer,
	}
}

// On binds a listener before the client exists, so it cannot miss events
// emitted right after construction such as "open". It returns the config
// for chaining.
func (c *Config) On(name string, listener censusstream.Listener) *Config {
	c.listeners = append(c.listeners, binding{name: name, listener: listener})
	return c
}

// URL returns the connection target for this configuration.
func (c *Config) URL() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = censusstream.StreamEndpoint
	}
	return censusstream.StreamURLFor(endpoint, c.Namespace, c.ServiceID)
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.RateLimitConfig == nil {
		out.RateLimitConfig = DefaultRateLimitConfig()
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaultPingInterval
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaultReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = defaultWriteTimeout
	}
	if out.SendBuffer <= 0 {
		out.SendBuffer = defaultSendBuffer
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	out.listeners = append([]binding(nil), c.listeners...)
	return out
}
