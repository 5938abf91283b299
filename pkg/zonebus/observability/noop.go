package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordPublish does nothing.
func (NoopMetrics) RecordPublish(_ context.Context, _ string, _, _ int, _ time.Duration) {}

// RecordTick does nothing.
func (NoopMetrics) RecordTick(_ context.Context, _ time.Duration, _ error) {}

// RecordTransition does nothing.
func (NoopMetrics) RecordTransition(_ context.Context, _ string) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartPublishSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartPublishSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartTickSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartTickSpan(ctx context.Context, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}

// Metrics returns an OTel recorder when enabled, NoopMetrics otherwise.
func Metrics(enabled bool) MetricsRecorder {
	if enabled {
		return NewMetricsRecorder()
	}
	return NoopMetrics{}
}

// Spans returns an OTel span manager when enabled, NoopSpanManager otherwise.
func Spans(enabled bool) SpanManager {
	if enabled {
		return NewSpanManager()
	}
	return NoopSpanManager{}
}
