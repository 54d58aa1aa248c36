package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrAccount   = "account"
	attrAttempt   = "attempt"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// Calendar backend metrics
	backendOperationsTotal   metric.Int64Counter
	backendOperationDuration metric.Float64Histogram
	backendRetriesTotal      metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Scheduling metrics
	slotsReturned        metric.Int64Histogram
	mutationResultsTotal metric.Int64Counter

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// Calendar backend metrics
	m.backendOperationsTotal, err = meter.Int64Counter(
		"calendar_backend_operations_total",
		metric.WithDescription("Total number of calendar backend operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_backend_operations_total counter: %w", err)
	}

	m.backendOperationDuration, err = meter.Float64Histogram(
		"calendar_backend_operation_duration_seconds",
		metric.WithDescription("Calendar backend operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_backend_operation_duration_seconds histogram: %w", err)
	}

	m.backendRetriesTotal, err = meter.Int64Counter(
		"calendar_backend_retries_total",
		metric.WithDescription("Total number of transient-failure retries against the calendar backend"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_backend_retries_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	// Scheduling metrics
	m.slotsReturned, err = meter.Int64Histogram(
		"scheduler_slots_returned",
		metric.WithDescription("Number of free slots returned per availability search"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 20, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler_slots_returned histogram: %w", err)
	}

	m.mutationResultsTotal, err = meter.Int64Counter(
		"scheduler_mutation_results_total",
		metric.WithDescription("Total number of mutation requests by outcome status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler_mutation_results_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBackendOperation records a calendar backend operation with operation
// name, status, and duration.
//
// Parameters:
//   - operation: Operation type (list, get, insert, update, delete)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordBackendOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.backendOperationsTotal == nil || m.backendOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.backendOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.backendOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBackendRetry records a transient-failure retry attempt against the
// calendar backend.
func (m *Metrics) RecordBackendRetry(ctx context.Context, operation string, attempt int) {
	if m.backendRetriesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.Int(attrAttempt, attempt),
	}

	m.backendRetriesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "scheduler_find_available_slots")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithAccount records an MCP tool invocation with account info.
// This is the detailed version that includes account information when detailedLabels is enabled.
//
// Parameters:
//   - toolName: Name of the MCP tool
//   - status: Result status ("success" or "error")
//   - account: User account (only included if detailedLabels is true)
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSlotsReturned records how many free slots an availability search produced.
func (m *Metrics) RecordSlotsReturned(ctx context.Context, count int) {
	if m.slotsReturned == nil {
		return // Instrumentation not initialized
	}

	m.slotsReturned.Record(ctx, int64(count))
}

// RecordMutationResult records the outcome status of a mutation request
// (pending_confirmation, conflict_detected, deleted, success, ...).
func (m *Metrics) RecordMutationResult(ctx context.Context, operation, status string) {
	if m.mutationResultsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.mutationResultsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}
