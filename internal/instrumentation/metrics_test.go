package instrumentation

import (
	"context"
	"testing"
	"time"
)

func testProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordBackendOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordBackendOperation(ctx, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordBackendOperation(ctx, OperationInsert, StatusError, 500*time.Millisecond)
	metrics.RecordBackendOperation(ctx, OperationGet, StatusSuccess, 100*time.Millisecond)
}

func TestMetrics_RecordBackendRetry(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordBackendRetry(ctx, OperationList, 1)
	metrics.RecordBackendRetry(ctx, OperationList, 2)
	metrics.RecordBackendRetry(ctx, OperationDelete, 3)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "scheduler_find_available_slots", StatusSuccess, 150*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "scheduler_create_event", StatusError, 75*time.Millisecond)
}

func TestMetrics_RecordSchedulingMetrics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordSlotsReturned(ctx, 0)
	metrics.RecordSlotsReturned(ctx, 7)
	metrics.RecordMutationResult(ctx, OperationInsert, "pending_confirmation")
	metrics.RecordMutationResult(ctx, OperationDelete, "deleted")
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := testProvider(t, ctx).Metrics()

	// Should not panic
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestMetrics_UninitializedIsNoOp(t *testing.T) {
	ctx := context.Background()
	m := &Metrics{}

	// All recorders must tolerate an uninitialized Metrics value
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	m.RecordBackendOperation(ctx, OperationList, StatusSuccess, time.Millisecond)
	m.RecordBackendRetry(ctx, OperationList, 1)
	m.RecordToolInvocation(ctx, "tool", StatusSuccess, time.Millisecond)
	m.RecordToolInvocationWithAccount(ctx, "tool", StatusSuccess, "work", time.Millisecond)
	m.RecordSlotsReturned(ctx, 3)
	m.RecordMutationResult(ctx, OperationInsert, "pending_confirmation")
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}

func TestMetrics_DetailedLabels(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		DetailedLabels:  true,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	metrics := provider.Metrics()

	// Should not panic with or without the account label
	metrics.RecordToolInvocationWithAccount(ctx, "scheduler_list_events", StatusSuccess, "work", 10*time.Millisecond)
	metrics.RecordToolInvocationWithAccount(ctx, "scheduler_list_events", StatusSuccess, "", 10*time.Millisecond)
}
