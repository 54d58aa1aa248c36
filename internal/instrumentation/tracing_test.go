package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func findAttr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("scheduler_create_event").
		WithOperation(OperationInsert).
		WithAccount("work").
		WithResource("event", "evt-123").
		WithReadOnly(false).
		WithConfirmed(true).
		Build()

	if v, ok := findAttr(attrs, attribute.Key(SpanAttrTool)); !ok || v.AsString() != "scheduler_create_event" {
		t.Errorf("expected tool attribute, got %v (present=%v)", v, ok)
	}
	if v, ok := findAttr(attrs, attribute.Key(SpanAttrOperation)); !ok || v.AsString() != OperationInsert {
		t.Errorf("expected operation attribute, got %v (present=%v)", v, ok)
	}
	if v, ok := findAttr(attrs, attribute.Key(SpanAttrAccount)); !ok || v.AsString() != "work" {
		t.Errorf("expected account attribute, got %v (present=%v)", v, ok)
	}
	if v, ok := findAttr(attrs, attribute.Key(SpanAttrResourceID)); !ok || v.AsString() != "evt-123" {
		t.Errorf("expected resource id attribute, got %v (present=%v)", v, ok)
	}
	if v, ok := findAttr(attrs, attribute.Key(SpanAttrConfirmed)); !ok || !v.AsBool() {
		t.Errorf("expected confirmed attribute true, got %v (present=%v)", v, ok)
	}
}

func TestSpanAttributeBuilder_EmptyValuesOmitted(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("scheduler_list_events").
		WithAccount("").
		WithResource("", "").
		Build()

	if _, ok := findAttr(attrs, attribute.Key(SpanAttrAccount)); ok {
		t.Error("expected empty account to be omitted")
	}
	if _, ok := findAttr(attrs, attribute.Key(SpanAttrResourceID)); ok {
		t.Error("expected empty resource to be omitted")
	}
}

func TestStartSpans_NoProvider(t *testing.T) {
	ctx := context.Background()

	// Without an installed tracer provider these fall back to no-op spans
	// and must still be safe to use.
	spanCtx, span := StartToolSpan(ctx, "scheduler_find_events")
	SetSpanSuccess(span)
	AddSpanEvent(span, "located", attribute.Int("candidates", 1))
	span.End()

	_, backendSpan := StartBackendSpan(spanCtx, OperationList)
	SetSpanError(backendSpan, errors.New("backend unavailable"))
	backendSpan.End()
}

func TestGetTraceID_NoSpan(t *testing.T) {
	ctx := context.Background()

	if id := GetTraceID(ctx); id != "" {
		t.Errorf("expected empty trace id without a span, got %q", id)
	}
	if id := GetSpanID(ctx); id != "" {
		t.Errorf("expected empty span id without a span, got %q", id)
	}
	if s := SpanContextString(ctx); s != "" {
		t.Errorf("expected empty span context string without a span, got %q", s)
	}
}
