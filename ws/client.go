package ws

import (
	"github.com/luciancaetano/censusstream"
	"github.com/luciancaetano/censusstream/internal/websocket"
)

type Config = websocket.Config
type RateLimitConfig = websocket.RateLimitConfig

// New creates a census stream client and starts connecting immediately.
//
// The call never blocks and never fails. Connection success is reported by
// the censusstream.EventOpen event, failure or loss by
// censusstream.EventClose. Bind listeners on the config with cfg.On to be
// sure to see "open".
//
// Example:
//
//	cfg := ws.NewConfig(censusstream.NamespacePC, serviceID)
//	cfg.On(censusstream.EventOpen, func(censusstream.Event) {
//	    log.Println("connected")
//	})
//	stream := ws.New(cfg)
//	stream.Subscribe(ctx, []int{1, 17}, []string{"PlayerLogin"})
func New(cfg *Config) censusstream.Stream {
	return websocket.NewClient(cfg)
}

// NewConfig returns a configuration with defaults for the given environment
// and service ID.
func NewConfig(namespace censusstream.Namespace, serviceID string) *Config {
	return websocket.NewConfig(namespace, serviceID)
}

// DefaultRateLimitConfig returns the default control frame pacing
func DefaultRateLimitConfig() *RateLimitConfig {
	return websocket.DefaultRateLimitConfig()
}

// NoRateLimit returns a configuration with pacing disabled
func NoRateLimit() *RateLimitConfig {
	return websocket.NoRateLimit()
}
