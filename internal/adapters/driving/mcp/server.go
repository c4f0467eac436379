package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Version is the MCP server version.
const Version = "0.3.0"

const shutdownGrace = 5 * time.Second

// Server exposes federated search to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "sercha",
		Title:   "Sercha federated search",
		Version: Version,
	}
	opts := &mcp.ServerOptions{Instructions: instructions(ports)}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, opts),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

func instructions(p *Ports) string {
	text := "Searches every app the user has connected (mail, drives, chat, docs, accounting) in one call. " +
		"Use the search tool for questions about the user's own data and the health resource to explain missing sources."
	if p.OrganizationID != "" {
		text += fmt.Sprintf(" Searches run as %s in organisation %s.", p.UserID, p.OrganizationID)
	} else {
		text += fmt.Sprintf(" Searches run as %s.", p.UserID)
	}
	return text
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP router: the MCP endpoint at /mcp and
// a liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	stream := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/mcp", stream)
	r.Handle("/mcp/*", stream)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	summary := s.ports.Health.GetHealthSummary()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"providers": summary.Overall,
	})
}

// RunHTTP serves Handler on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
