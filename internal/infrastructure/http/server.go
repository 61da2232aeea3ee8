package http

import (
	"cmp"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	mw "github.com/rezkam/shoplist/internal/infrastructure/http/middleware"
	"github.com/rezkam/shoplist/internal/infrastructure/http/response"
)

// APIPrefix is where the API handler is mounted.
const APIPrefix = "/api/v1"

// Defaults for zero ServerConfig fields. An empty host listens on all
// interfaces.
const (
	DefaultPort              = "8080"
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20
	DefaultMaxBodyBytes      = 256 << 10
)

// ServerConfig holds the listener, timeouts and request limits.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64

	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
}

func positive[T int | int64 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// applyDefaults fills zero or negative fields.
func (cfg *ServerConfig) applyDefaults() {
	cfg.Port = cmp.Or(cfg.Port, DefaultPort)
	cfg.ReadTimeout = positive(cfg.ReadTimeout, DefaultReadTimeout)
	cfg.WriteTimeout = positive(cfg.WriteTimeout, DefaultWriteTimeout)
	cfg.IdleTimeout = positive(cfg.IdleTimeout, DefaultIdleTimeout)
	cfg.ReadHeaderTimeout = positive(cfg.ReadHeaderTimeout, DefaultReadHeaderTimeout)
	cfg.MaxHeaderBytes = positive(cfg.MaxHeaderBytes, DefaultMaxHeaderBytes)
	cfg.MaxBodyBytes = positive(cfg.MaxBodyBytes, DefaultMaxBodyBytes)
}

// APIServer serves the shopping list API behind the shared middleware chain.
type APIServer struct {
	server   *http.Server
	certFile string
	keyFile  string
}

// NewAPIServer mounts apiHandler under APIPrefix next to /health and wraps
// the router with otelhttp. Spans start named after the method and are
// renamed to the matched route pattern once routing is done.
func NewAPIServer(apiHandler http.Handler, cfg ServerConfig) *APIServer {
	cfg.applyDefaults()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RouteSpanName)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))

	r.Get("/health", health)
	r.Mount(APIPrefix, apiHandler)

	traced := otelhttp.NewHandler(r, "shoplist.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
	)

	s := &APIServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           traced,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		},
	}
	if cfg.TLSEnabled {
		s.certFile, s.keyFile = cfg.TLSCertFile, cfg.TLSKeyFile
	}
	return s
}

func health(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Addr is the listen address.
func (s *APIServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving requests and returns http.ErrServerClosed after
// Shutdown.
func (s *APIServer) Start() error {
	tls := s.certFile != ""
	slog.Info("Starting HTTP server", "addr", s.server.Addr, "tls", tls)
	if tls {
		return s.server.ListenAndServeTLS(s.certFile, s.keyFile)
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *APIServer) Shutdown(ctx context.Context) error {
	slog.InfoContext(ctx, "Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the fully wrapped handler, for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}
