package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/metrics"
	"github.com/riguelni/go-docs/internal/themes"
	"github.com/riguelni/go-docs/internal/view"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Server renders catalog pages over HTTP.
type Server struct {
	store       *catalog.Store
	builder     view.Builder
	templates   interfaces.TemplateRenderer
	themeAssets fs.FS
	content     fs.FS
	metrics     *metrics.Metrics
	logger      interfaces.Logger
	revealDelay time.Duration
	mounts      map[string]http.Handler
}

// Option mutates the Server configuration.
type Option func(*Server)

// NewServer constructs a Server. A store, a builder with a markdown renderer
// and templates are required before Handler is called.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:      logging.NoOp(),
		themeAssets: themes.BuiltinAssets(),
		mounts:      map[string]http.Handler{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithStore wires the catalog store.
func WithStore(store *catalog.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithBuilder wires the page model builder. Its RevealDelay is the default
// delay for every page.
func WithBuilder(builder view.Builder) Option {
	return func(s *Server) {
		s.builder = builder
		s.revealDelay = builder.RevealDelay
	}
}

// WithTemplates wires the template renderer.
func WithTemplates(templates interfaces.TemplateRenderer) Option {
	return func(s *Server) {
		s.templates = templates
	}
}

// WithThemeAssets overrides the files served under /assets/theme/.
func WithThemeAssets(assets fs.FS) Option {
	return func(s *Server) {
		if assets != nil {
			s.themeAssets = assets
		}
	}
}

// WithContent wires the content file system the catalog was loaded from.
// Site assets are served from its asset directory.
func WithContent(content fs.FS) Option {
	return func(s *Server) {
		s.content = content
	}
}

// WithMetrics enables instrumentation and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger overrides the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHandler mounts an extra handler, e.g. the MCP endpoint.
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *Server) {
		if pattern = strings.TrimSpace(pattern); pattern != "" && handler != nil {
			s.mounts[pattern] = handler
		}
	}
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /docs", s.handleIndex)
	mux.HandleFunc("GET /docs/", s.handlePage)
	mux.Handle("GET "+themes.AssetPrefix, http.StripPrefix(themes.AssetPrefix, http.FileServerFS(s.themeAssets)))
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	for pattern, handler := range s.mounts {
		mux.Handle(pattern, handler)
	}
	mux.HandleFunc("/", s.handleAsset)
	return instrument(mux, s.metrics, s.logger)
}

// ServeConfig configures ListenAndServe.
type ServeConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg ServeConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http.listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http: serve %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("http.shutdown", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	return nil
}
