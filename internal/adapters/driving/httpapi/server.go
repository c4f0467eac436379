// Package httpapi serves the search engine over HTTP.
//
// Routes:
//
//	POST /api/v1/search              federated search (bearer JWT)
//	GET  /api/v1/health              provider health summary
//	GET  /api/v1/health/{provider}   one provider's health
//	GET  /healthz                    liveness
//	GET  /metrics                    Prometheus metrics
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 64 << 10

// Config holds server configuration.
type Config struct {
	Addr string
	// JWTSecret verifies HS256 session tokens. Required.
	JWTSecret string
	// AllowedOrigins for CORS. Empty allows localhost only.
	AllowedOrigins []string
	// RequestTimeout bounds one request. It should exceed the engine's
	// overall deadline so searches settle before the connection is cut.
	RequestTimeout time.Duration
}

// Server is the HTTP front end for the search and health services.
type Server struct {
	cfg        Config
	search     driving.SearchService
	health     driving.HealthService
	router     chi.Router
	httpServer *http.Server
	now        func() time.Time
}

// New creates a server. search and health are required.
func New(cfg Config, search driving.SearchService, health driving.HealthService) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		search: search,
		health: health,
		now:    time.Now,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealthSummary)
		r.Get("/health/{provider}", s.handleProviderHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/search", s.handleSearch)
		})
	})

	return r
}

// Router returns the router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", ln.Addr())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
