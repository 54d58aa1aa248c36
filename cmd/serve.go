package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/smartsched/smartsched/internal/instrumentation"
	"github.com/smartsched/smartsched/internal/server"
	"github.com/smartsched/smartsched/internal/tools/scheduler_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// ServeConfig holds the runtime settings for the serve command
type ServeConfig struct {
	Transport        string
	HTTPAddr         string
	DebugMode        bool
	Yolo             bool
	Timezone         string
	CalendarID       string
	DisableStreaming bool
	Metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	var (
		debugMode        bool
		transport        string
		httpAddr         string
		yolo             bool
		timezone         string
		calendarID       string
		disableStreaming bool
		metricsEnabled   bool
		metricsAddr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start smartsched as an MCP (Model Context Protocol) server.

The server exposes scheduling tools over stdio (default) or streamable HTTP:
  - Find free slots of a given duration within a time window
  - Check whether a specific interval is free
  - List and locate calendar events by name and day
  - Resolve natural-language dates and time phrases
  - Create, update and delete events (requires --yolo)

Mutating tools are only registered when --yolo is set, and every mutation
additionally requires an explicit confirmed flag from the caller.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ServeConfig{
				Transport:        transport,
				HTTPAddr:         httpAddr,
				DebugMode:        debugMode,
				Yolo:             yolo,
				Timezone:         timezone,
				CalendarID:       calendarID,
				DisableStreaming: disableStreaming,
				Metrics: MetricsConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (create, update and delete events)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for date resolution. Can also use SMARTSCHED_TIMEZONE env var.")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "Calendar to operate on (default: primary). Can also use SMARTSCHED_CALENDAR_ID env var.")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable SSE streaming for HTTP responses (plain JSON responses)")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(config ServeConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applyEnvOverrides(&config)

	if config.DebugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if config.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		CalendarID: config.CalendarID,
		Timezone:   config.Timezone,
		ReadOnly:   !config.Yolo,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Pre-warm calendar clients for additional accounts listed in the environment
	for _, account := range parseCommaSeparatedList(os.Getenv("SMARTSCHED_ACCOUNTS")) {
		if serverContext.CalendarClientForAccount(account) == nil && config.Transport != "stdio" {
			log.Printf("Warning: no stored token for account %q, skipping", account)
		}
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	healthChecker := server.NewHealthChecker(serverContext)

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if config.Transport != "stdio" && config.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    config.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			HealthChecker:           healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if config.Transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("smartsched", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Log the mode for visibility (only for non-stdio transports)
	if config.Transport != "stdio" {
		if serverContext.ReadOnly() {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	if err := scheduler_tools.RegisterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register scheduler tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting smartsched MCP server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, healthChecker, config)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", config.Transport)
	}
}

// applyEnvOverrides fills settings that were left at their defaults from
// the environment. Flags take precedence over environment variables.
func applyEnvOverrides(config *ServeConfig) {
	if config.Timezone == "" {
		config.Timezone = os.Getenv("SMARTSCHED_TIMEZONE")
	}
	if config.CalendarID == "" {
		config.CalendarID = os.Getenv("SMARTSCHED_CALENDAR_ID")
	}
	if config.Metrics.Enabled {
		if enabled := os.Getenv("METRICS_ENABLED"); enabled == "false" {
			config.Metrics.Enabled = false
		}
	}
	if config.Metrics.Addr == "" || config.Metrics.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Metrics.Addr = addr
		}
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(shutdownCtx context.Context, mcpSrv *mcpserver.MCPServer, healthChecker *server.HealthChecker, config ServeConfig) error {
	httpServer := server.NewHTTPServer(mcpSrv, config.DisableStreaming)
	httpServer.SetHealthChecker(healthChecker)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(config.HTTPAddr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	healthChecker.SetReady(true)

	select {
	case <-shutdownCtx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		if err := httpServer.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("error during HTTP server shutdown: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	}
}

// parseCommaSeparatedList splits a comma-separated flag value into trimmed,
// non-empty entries. Returns nil for an empty input.
func parseCommaSeparatedList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
