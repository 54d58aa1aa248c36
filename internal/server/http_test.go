package server

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestNewHTTPServer(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0")

	srv := NewHTTPServer(mcpSrv, false)
	if srv == nil {
		t.Fatal("NewHTTPServer() returned nil")
	}
	if srv.Addr() != "" {
		t.Errorf("Addr() before Start = %q, want empty", srv.Addr())
	}
}

func TestHTTPServerShutdownWithoutStart(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0")
	srv := NewHTTPServer(mcpSrv, true)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() without Start error = %v", err)
	}
}

func TestHTTPServerSetLogger(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0")
	srv := NewHTTPServer(mcpSrv, false)

	// nil must not clobber the default logger
	srv.SetLogger(nil)
	if srv.logger == nil {
		t.Error("SetLogger(nil) cleared the default logger")
	}
}
