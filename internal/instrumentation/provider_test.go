package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to report disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected no-op metrics to be non-nil")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected no-op tracer to be non-nil")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("disabled provider shutdown returned error: %v", err)
	}
}

func TestNewProvider_Prometheus(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to report enabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil")
	}
	if provider.PrometheusHandler() == nil {
		t.Error("expected prometheus handler to be available")
	}
}

func TestNewProvider_StdoutExporters(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterStdout,
		TracingExporter: ExporterStdout,
	})
	if err != nil {
		t.Fatalf("failed to create provider with stdout exporters: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.Tracer("test") == nil {
		t.Error("expected tracer to be non-nil")
	}
}

func TestProvider_ShutdownIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("first shutdown returned error: %v", err)
	}
}
