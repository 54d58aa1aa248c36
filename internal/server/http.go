package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartsched/smartsched/internal/logging"
)

// HTTPServer serves the MCP streamable HTTP transport together with the
// health check endpoints on a single listener.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	httpServer       *http.Server
	healthChecker    *HealthChecker
	disableStreaming bool
	logger           logging.Logger
}

// NewHTTPServer creates an HTTP server for the streamable-http transport.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, disableStreaming bool) *HTTPServer {
	return &HTTPServer{
		mcpServer:        mcpServer,
		disableStreaming: disableStreaming,
		logger:           logging.DefaultLogger(),
	}
}

// SetLogger replaces the server's logger.
func (s *HTTPServer) SetLogger(logger logging.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetHealthChecker attaches the health checker whose endpoints are exposed
// alongside the MCP endpoint.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.healthChecker = h
}

// Start starts serving on addr in a blocking manner.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	var streamable http.Handler
	if s.disableStreaming {
		streamable = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		streamable = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)
	}
	mux.Handle("/mcp", streamable)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("HTTP server starting", "addr", addr, "endpoint", "/mcp")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("HTTP server shutting down")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured listen address, or empty before Start.
func (s *HTTPServer) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}
