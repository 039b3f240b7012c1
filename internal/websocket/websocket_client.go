package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/censusstream"
	"github.com/luciancaetano/censusstream/internal/emitter"
	"github.com/luciancaetano/censusstream/internal/metrics"
	"github.com/luciancaetano/censusstream/internal/protocol"
)

// outbound is a queued control frame
type outbound struct {
	action string
	data   []byte
}

// Client implements the censusstream.Stream interface
type Client struct {
	id     string
	url    string
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	sendCh chan outbound
	done   chan struct{}

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	closed    bool

	events      *emitter.Registry
	rateLimiter *rate.Limiter // Paces outgoing control frames
	metrics     *metrics.Metrics
}

// NewClient creates a client and starts connecting in the background.
// It never blocks and never fails: the outcome is reported by the "open" or
// "close" event.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = NewConfig(censusstream.NamespacePC, "")
	}
	resolved := cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	var limiter *rate.Limiter
	if resolved.RateLimitConfig.Enabled {
		limiter = rate.NewLimiter(resolved.RateLimitConfig.MessagesPerSecond, resolved.RateLimitConfig.Burst)
	}

	id := uuid.New().String()
	logger := resolved.Logger.With("client_id", id, "environment", string(resolved.Namespace))

	m, err := metrics.New(resolved.MetricsRegisterer)
	if err != nil {
		logger.Warn("stream: metrics disabled", "error", err)
	}

	client := &Client{
		id:          id,
		url:         resolved.URL(),
		cfg:         resolved,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		sendCh:      make(chan outbound, resolved.SendBuffer),
		done:        make(chan struct{}),
		rateLimiter: limiter,
		metrics:     m,
	}

	client.events = emitter.New(func(name string, recovered any) {
		logger.Error("stream: listener panicked", "event", name, "panic", recovered)
	})
	for _, b := range resolved.listeners {
		client.events.On(b.name, b.listener)
	}

	go client.run()

	return client
}

// ID returns a unique identifier for this client instance
func (c *Client) ID() string {
	return c.id
}

// URL returns the connection target
func (c *Client) URL() string {
	return c.url
}

// On registers a listener for the named event
func (c *Client) On(name string, listener censusstream.Listener) censusstream.ListenerID {
	return c.events.On(name, listener)
}

// Once registers a listener that fires at most once
func (c *Client) Once(name string, listener censusstream.Listener) censusstream.ListenerID {
	return c.events.Once(name, listener)
}

// Off removes a listener
func (c *Client) Off(name string, id censusstream.ListenerID) {
	c.events.Off(name, id)
}

// Done returns a channel closed once the connection has ended
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// IsAlive returns true if the connection is open
func (c *Client) IsAlive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && !c.closed
}

// Subscribe queues a subscribe control frame
func (c *Client) Subscribe(ctx context.Context, worlds []int, eventNames []string, opts ...censusstream.SubscribeOption) {
	data, err := protocol.EncodeSubscribe(worlds, eventNames, censusstream.ApplySubscribeOptions(opts...))
	c.dispatchControl(ctx, censusstream.ActionSubscribe, data, err, "stream: failed subscribing to event")
}

// Unsubscribe queues a clearSubscribe control frame
func (c *Client) Unsubscribe(ctx context.Context, worlds []int, eventNames []string, opts ...censusstream.SubscribeOption) {
	data, err := protocol.EncodeUnsubscribe(worlds, eventNames, censusstream.ApplySubscribeOptions(opts...))
	c.dispatchControl(ctx, censusstream.ActionClearSubscribe, data, err, "stream: failed unsubscribing from event")
}

// UnsubscribeAll queues the clear-everything control frame
func (c *Client) UnsubscribeAll(ctx context.Context) {
	data, err := protocol.EncodeUnsubscribeAll()
	c.dispatchControl(ctx, censusstream.ActionClearSubscribe, data, err, "stream: failed unsubscribing from all events")
}

// dispatchControl queues a control frame. Failures are logged only.
func (c *Client) dispatchControl(ctx context.Context, action string, data []byte, err error, failure string) {
	if err == nil {
		err = c.send(ctx, outbound{action: action, data: data})
	}
	if err != nil {
		c.metrics.ControlFailed(action)
		c.logger.Debug(failure, "error", err, "payload", string(data))
	}
}

// send queues a frame for the write pump without blocking. Frames queued
// before the handshake completes are written once connected; a full queue
// drops the frame.
func (c *Client) send(ctx context.Context, msg outbound) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// The closed check and enqueue are atomic with respect to run's drain
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return censusstream.ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return censusstream.ErrSendQueueFull
	}
}

// Close closes the client connection
func (c *Client) Close(ctx context.Context) error {
	return c.CloseWithCode(ctx, websocket.CloseNormalClosure, "")
}

// CloseWithCode closes the connection with a close code and optional reason
func (c *Client) CloseWithCode(ctx context.Context, code int, reason string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	conn := c.conn
	c.mu.Unlock()

	// Still dialing: run discards whatever the dial returns
	if conn == nil {
		return nil
	}

	// Send close message
	deadline := time.Now().Add(time.Second)
	if ctx != nil {
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
	}
	message := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, message, deadline)

	return conn.Close()
}

// run owns the connection: it dials, emits "open", reads and dispatches
// frames until the connection ends, then emits "close".
func (c *Client) run() {
	cause := c.connectAndRead()

	c.mu.Lock()
	closedByCaller := c.closed
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		conn.Close()
	}
	c.metrics.SetConnected(false)
	c.dropQueued()

	if closedByCaller {
		cause = nil
		c.logger.Info("stream: connection closed")
	} else {
		c.logger.Warn("stream: connection lost", "error", cause)
	}

	c.emit(censusstream.Event{Name: censusstream.EventClose, Err: cause})
	close(c.done)
}

func (c *Client) connectAndRead() error {
	dialer := c.cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: c.cfg.HandshakeTimeout,
		}
	}

	conn, resp, err := dialer.DialContext(c.ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w: %s: %w", censusstream.ErrDialFailed, resp.Status, err)
		}
		return fmt.Errorf("%w: %w", censusstream.ErrDialFailed, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return censusstream.ErrConnectionClosed
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	conn.SetReadLimit(defaultReadLimit)
	c.extendReadDeadline()
	conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	c.metrics.SetConnected(true)
	c.logger.Info("stream: connected")

	go c.writePump(conn)

	c.emit(censusstream.Event{Name: censusstream.EventOpen})

	return c.readLoop(conn)
}

// readLoop reads frames one at a time and dispatches each one fully before
// reading the next, which keeps events in arrival order.
func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("stream: unexpected close", "error", err)
			}
			return fmt.Errorf("%w: %w", censusstream.ErrConnectionClosed, err)
		}

		// Reset read deadline after successful read
		c.extendReadDeadline()

		c.handleFrame(data)
	}
}

// handleFrame decodes one frame and re-emits it.
func (c *Client) handleFrame(data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		c.metrics.FrameDropped(metrics.ReasonInvalidJSON)
		c.logger.Debug("stream: JSON data is not valid", "error", err, "frame", string(data))
		return
	}
	c.metrics.FrameReceived(string(env.Type()))

	c.emit(censusstream.Event{Name: censusstream.EventData, Envelope: env})

	switch e := env.(type) {
	case *censusstream.Heartbeat:
		c.emit(censusstream.Event{Name: censusstream.EventHeartbeat, Envelope: e})
	case *censusstream.ServiceMessage:
		name := string(e.EventName())
		if name == "" {
			c.logger.Debug("stream: service message without event name", "frame", string(data))
			return
		}
		c.emit(censusstream.Event{Name: name, Envelope: e})
	default:
		// Other types only go to "data"
	}
}

// dropQueued discards control frames that never reached the socket.
func (c *Client) dropQueued() {
	for {
		select {
		case msg := <-c.sendCh:
			c.metrics.ControlFailed(msg.action)
			c.logger.Debug("stream: dropped queued control frame", "action", msg.action, "error", censusstream.ErrConnectionClosed, "payload", string(msg.data))
		default:
			return
		}
	}
}

func (c *Client) emit(ev censusstream.Event) {
	c.metrics.EventEmitted(eventLabel(ev.Name))
	c.events.Emit(ev)
}

// eventLabel bounds the metric label to lifecycle events and the catalog.
func eventLabel(name string) string {
	switch name {
	case censusstream.EventOpen, censusstream.EventData, censusstream.EventHeartbeat, censusstream.EventClose:
		return name
	}
	if censusstream.EventName(name).Known() {
		return name
	}
	return "unknown"
}

func (c *Client) extendReadDeadline() {
	if c.cfg.ReadTimeout < 0 {
		return
	}
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil {
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
}

// writePump pumps control frames from the send channel to the websocket connection
func (c *Client) writePump(conn *websocket.Conn) {
	var tick <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case msg := <-c.sendCh:
			if err := c.write(conn, msg); err != nil {
				c.metrics.ControlFailed(msg.action)
				c.logger.Debug("stream: failed writing control frame", "action", msg.action, "error", err, "payload", string(msg.data))
				if errors.Is(err, context.Canceled) {
					return
				}
				// A broken socket also ends the read loop
				conn.Close()
				return
			}
			c.metrics.ControlSent(msg.action)

		case <-tick:
			// Send ping to keep connection alive
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) write(conn *websocket.Conn, msg outbound) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(c.ctx); err != nil {
			return err
		}
	}
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, msg.data)
}
