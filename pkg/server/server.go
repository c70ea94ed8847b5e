package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/middleware"
)

// Config configures the playground server.
type Config struct {
	// Address is the listen address. Default "localhost:8080".
	Address string

	// MaxBodyBytes limits request bodies and WebSocket frames. Default 1 MiB.
	MaxBodyBytes int64

	// Metrics mounts /metrics and records encode metrics.
	Metrics bool

	// Registry receives the encode metrics. A new registry is created when
	// nil and Metrics is set.
	Registry *prometheus.Registry

	// Options are the base transformer options. They are applied on top of
	// the server's instrumented encoder, so html.WithMiddleware wraps it;
	// html.WithEncoder replaces it. Query parameters of /api/encode are
	// applied last.
	Options []html.Option

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown. Default 10s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		Address:         "localhost:8080",
		MaxBodyBytes:    1 << 20,
		Metrics:         true,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.Metrics && c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
}

// Server serves the encoder over HTTP and WebSocket.
type Server struct {
	config  Config
	logger  *slog.Logger
	encoder html.Encoder
	preview *Preview
	router  chi.Router

	httpServer *http.Server
}

// New creates a server.
func New(config Config) *Server {
	config.applyDefaults()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mw := []html.Middleware{
		middleware.OpenTelemetry(),
		middleware.Logging(logger),
	}
	if config.Metrics {
		mw = append(mw, middleware.Prometheus(middleware.WithRegistry(config.Registry)))
	}

	s := &Server{
		config:  config,
		logger:  logger.With("component", "server"),
		encoder: html.Chain(html.Engine, mw...),
	}
	s.preview = NewPreview(s.transformer(), config.MaxBodyBytes, s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/encode", s.handleEncode)
		r.Post("/decode", s.handleDecode)
	})

	r.Get("/demos", s.handleDemos)
	r.Get("/demos/{name}", s.handleDemo)
	r.Get("/ws", s.preview.HandleWebSocket)

	if s.config.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// transformer returns a transformer with the server's encoder chain, the base
// options and extra applied in that order.
func (s *Server) transformer(extra ...html.Option) *html.Transformer {
	opts := make([]html.Option, 0, len(s.config.Options)+len(extra)+1)
	opts = append(opts, html.WithEncoder(s.encoder))
	opts = append(opts, s.config.Options...)
	opts = append(opts, extra...)
	return html.NewTransformer(opts...)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Preview returns the live preview hub.
func (s *Server) Preview() *Preview {
	return s.preview
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.New("N080").
			WithDetail("Could not listen on " + s.config.Address + ".").
			WithSuggestion("Pick another address with --addr or server.address").
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("N080").Wrap(err)
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes preview connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.preview.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
