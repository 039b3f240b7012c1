// Command censuswatch connects to the census push stream, subscribes to the
// configured events and logs everything it receives.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/censusstream"
	"github.com/luciancaetano/censusstream/internal/config"
	"github.com/luciancaetano/censusstream/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("censuswatch: invalid configuration", "error", err)
		os.Exit(2)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("censuswatch: stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	streamCfg := ws.NewConfig(cfg.Namespace(), cfg.ServiceID)
	if cfg.Endpoint != "" {
		streamCfg.Endpoint = cfg.Endpoint
	}
	streamCfg.HandshakeTimeout = cfg.HandshakeTimeout
	streamCfg.Logger = logger
	if cfg.RateLimit > 0 {
		streamCfg.RateLimitConfig = &ws.RateLimitConfig{
			MessagesPerSecond: rate.Limit(cfg.RateLimit),
			Burst:             cfg.RateBurst,
			Enabled:           true,
		}
	} else {
		streamCfg.RateLimitConfig = ws.NoRateLimit()
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		streamCfg.MetricsRegisterer = registry
		metricsServer = serveMetrics(cfg.MetricsAddr, registry, logger)
	}

	opts := []censusstream.SubscribeOption{
		censusstream.WithLogicalAndCharactersWithWorlds(cfg.LogicalAnd),
	}
	if len(cfg.Characters) > 0 {
		opts = append(opts, censusstream.WithCharacters(cfg.Characters...))
	}

	streamCfg.On(censusstream.EventOpen, func(censusstream.Event) {
		logger.Info("censuswatch: subscribing", "worlds", cfg.Worlds, "events", cfg.Events)
	})
	streamCfg.On(censusstream.EventHeartbeat, func(ev censusstream.Event) {
		hb := ev.Envelope.(*censusstream.Heartbeat)
		logger.Debug("censuswatch: heartbeat", "online", hb.Online)
	})
	for _, name := range cfg.Events {
		streamCfg.On(name, logEvent(logger))
	}

	var closeErr error
	streamCfg.On(censusstream.EventClose, func(ev censusstream.Event) {
		closeErr = ev.Err
	})

	stream := ws.New(streamCfg)
	stream.Subscribe(ctx, cfg.Worlds, cfg.Events, opts...)

	select {
	case <-ctx.Done():
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stream.UnsubscribeAll(closeCtx)
		if err := stream.Close(closeCtx); err != nil {
			logger.Debug("censuswatch: close", "error", err)
		}
		<-stream.Done()
	case <-stream.Done():
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		metricsServer.Shutdown(shutdownCtx)
	}

	return closeErr
}

func logEvent(logger *slog.Logger) censusstream.Listener {
	return func(ev censusstream.Event) {
		msg, ok := ev.Envelope.(*censusstream.ServiceMessage)
		if !ok {
			return
		}
		attrs := []any{"event", ev.Name}
		if ts, err := msg.Payload.Time(); err == nil {
			attrs = append(attrs, "time", ts)
		}
		attrs = append(attrs, "payload", string(msg.RawPayload))
		logger.Info("censuswatch: event", attrs...)
	}
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("censuswatch: metrics server", "error", err)
		}
	}()
	return server
}
