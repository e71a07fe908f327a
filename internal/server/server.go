// Package server exposes an Engine over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grahms/bbweaver"
	"github.com/grahms/bbweaver/internal/cache"
)

// cacheKey holds a digest of the input so an entry retains only its output.
type cacheKey struct {
	digest   [sha256.Size]byte
	sanitize bool
}

func newCacheKey(text string, sanitize bool) cacheKey {
	return cacheKey{digest: sha256.Sum256([]byte(text)), sanitize: sanitize}
}

// Server renders bracket markup over HTTP with graceful shutdown.
type Server struct {
	cfg    *config
	engine *bbweaver.Engine
	policy *bluemonday.Policy
	cache  *cache.LRU[cacheKey, string]

	srv  *http.Server
	once sync.Once
	mu   sync.Mutex
}

// New returns a Server for engine. The engine's tag set is read once for
// the sanitize policy, so it should not change while serving.
func New(engine *bbweaver.Engine, opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.metrics == nil {
		cfg.metrics = NewMetrics(nil)
	}
	return &Server{
		cfg:    cfg,
		engine: engine,
		policy: engine.Policy(),
		cache:  cache.NewLRU[cacheKey, string](cfg.cacheSize),
	}
}

// Handler returns the routes:
//
//	POST /render    render text or {"text": ...}
//	GET  /tags      active tag set as YAML
//	GET  /healthz   liveness
//	GET  /metrics   Prometheus
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/render", s.handleRender)
	r.Get("/tags", s.handleTags)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.metrics.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Run starts listening and blocks until ctx is done, a termination signal
// arrives or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	srv := &http.Server{Addr: s.cfg.addr, Handler: s.Handler()}
	s.srv = srv
	s.mu.Unlock()

	s.cfg.logger.Info("server started", slog.String("addr", s.cfg.addr))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case <-stop:
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// Shutdown stops the server gracefully. It is safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		s.cfg.logger.Info("server stopped")
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
