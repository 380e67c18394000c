// Package mcpserver exposes the recommendation wizard and saved history as MCP
// tools over streamable HTTP, so agent clients can request crop advice.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/smartagri/internal/history"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/wizard"
)

// DefaultAddr binds to a random loopback port.
const DefaultAddr = "127.0.0.1:0"

// Server is an MCP HTTP server. Each recommend_crops call runs its own wizard.
type Server struct {
	submitter wizard.Submitter
	store     *history.Store
	tr        i18n.Translator
	version   string

	mcpServer *server.MCPServer
	stdServer *http.Server
	addr      string
	mu        sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithHistory saves every successful recommendation and enables the history tools.
func WithHistory(store *history.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithTranslator sets the language of rendered reports and error messages.
func WithTranslator(tr i18n.Translator) Option {
	return func(s *Server) { s.tr = tr }
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a server. Nothing listens until Start is called.
func New(submitter wizard.Submitter, opts ...Option) *Server {
	s := &Server{submitter: submitter, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer(
		"smartagri",
		s.version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Handler returns the stateless streamable HTTP handler.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true))
}

// Start listens on addr and serves /mcp in the background. It returns the
// endpoint URL.
func (s *Server) Start(ctx context.Context, addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return "", fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = DefaultAddr
	}

	// Listen before serving so the caller learns the real port without a race.
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr = listener.Addr().String()

	mux := http.NewServeMux()
	mux.Handle("/mcp", s.Handler())
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", s.addr)
	return s.url(), nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the MCP endpoint, or "" before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url()
}

func (s *Server) url() string {
	if s.addr == "" {
		return ""
	}
	return "http://" + s.addr + "/mcp"
}
