package server

import (
	"log/slog"
	"time"
)

type config struct {
	addr               string
	shutdownTimeout    time.Duration
	maxBodyBytes       int64
	cacheSize          int
	cacheMaxInputBytes int
	metrics            *Metrics
	logger             *slog.Logger
}

func defaultConfig() *config {
	return &config{
		addr:               ":8080",
		shutdownTimeout:    5 * time.Second,
		maxBodyBytes:       1 << 20,
		cacheSize:          1024,
		cacheMaxInputBytes: 64 << 10,
	}
}

// Option configures the server.
type Option func(*config)

// WithAddr sets the address the server listens on.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithShutdownTimeout sets the time allowed for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithMaxBodyBytes limits the size of a render request body.
func WithMaxBodyBytes(n int64) Option {
	if n <= 0 {
		panic("WithMaxBodyBytes: limit must be > 0")
	}
	return func(c *config) { c.maxBodyBytes = n }
}

// WithCacheSize sets how many rendered documents are kept.
func WithCacheSize(n int) Option {
	if n <= 0 {
		panic("WithCacheSize: size must be > 0")
	}
	return func(c *config) { c.cacheSize = n }
}

// WithCacheMaxInputBytes sets the largest input whose rendering is cached.
// Larger inputs are rendered on every request.
func WithCacheMaxInputBytes(n int) Option {
	if n < 0 {
		panic("WithCacheMaxInputBytes: limit must be >= 0")
	}
	return func(c *config) { c.cacheMaxInputBytes = n }
}

// WithMetrics uses m for instrumentation. It should be the same value
// passed to the engine through bbweaver.WithEventSink.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithLogger supplies an external slog.Logger instance. If nil, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}
