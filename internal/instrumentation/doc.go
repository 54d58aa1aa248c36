// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the smartsched MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, calendar backend calls, and tool invocations
//   - Distributed tracing for request flows and backend calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active user sessions
//
// Calendar Backend Metrics:
//   - calendar_backend_operations_total: Counter of backend operations by operation, status
//   - calendar_backend_operation_duration_seconds: Histogram of backend operation durations
//   - calendar_backend_retries_total: Counter of transient-failure retries by operation, attempt
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Scheduling Metrics:
//   - scheduler_slots_returned: Histogram of free slots returned per availability search
//   - scheduler_mutation_results_total: Counter of mutation requests by outcome status
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations (tool.<name>)
//   - Calendar backend calls (calendar.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: smartsched)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "smartsched",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record a calendar backend operation
//	recorder.RecordBackendOperation(ctx, "list", "success", time.Since(start))
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocation(ctx, "scheduler_find_available_slots", "success", time.Since(start))
package instrumentation
