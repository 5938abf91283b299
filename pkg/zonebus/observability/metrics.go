package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records zonebus metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPublish records one Publish call with its delivery counts.
	RecordPublish(ctx context.Context, eventType string, delivered, failed int, duration time.Duration)

	// RecordTick records one poll tick. err is non-nil for abandoned ticks.
	RecordTick(ctx context.Context, duration time.Duration, err error)

	// RecordTransition records a zone entering or leaving.
	RecordTransition(ctx context.Context, kind string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	publishes       metric.Int64Counter
	publishLatency  metric.Float64Histogram
	handlerFailures metric.Int64Counter
	ticks           metric.Int64Counter
	tickLatency     metric.Float64Histogram
	tickErrors      metric.Int64Counter
	transitions     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("zonebus")

	publishes, err := meter.Int64Counter("zonebus.publish.count",
		metric.WithDescription("Number of publish calls that reached dispatch"),
	)
	if err != nil {
		return nil, err
	}

	publishLatency, err := meter.Float64Histogram("zonebus.publish.latency_ms",
		metric.WithDescription("Publish latency across all handlers in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerFailures, err := meter.Int64Counter("zonebus.handler.failures",
		metric.WithDescription("Number of handler calls that returned an error or panicked"),
	)
	if err != nil {
		return nil, err
	}

	ticks, err := meter.Int64Counter("zonebus.tick.count",
		metric.WithDescription("Number of poll ticks"),
	)
	if err != nil {
		return nil, err
	}

	tickLatency, err := meter.Float64Histogram("zonebus.tick.latency_ms",
		metric.WithDescription("Poll tick latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	tickErrors, err := meter.Int64Counter("zonebus.tick.errors",
		metric.WithDescription("Number of abandoned poll ticks"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter("zonebus.zone.transitions",
		metric.WithDescription("Number of zone enter/leave transitions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		publishes:       publishes,
		publishLatency:  publishLatency,
		handlerFailures: handlerFailures,
		ticks:           ticks,
		tickLatency:     tickLatency,
		tickErrors:      tickErrors,
		transitions:     transitions,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordPublish records a publish.
func (m *otelMetrics) RecordPublish(ctx context.Context, eventType string, delivered, failed int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))

	m.publishes.Add(ctx, 1, attrs)
	m.publishLatency.Record(ctx, Milliseconds(duration), attrs)
	if failed > 0 {
		m.handlerFailures.Add(ctx, int64(failed), attrs)
	}
}

// RecordTick records a poll tick.
func (m *otelMetrics) RecordTick(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))

	m.ticks.Add(ctx, 1, attrs)
	m.tickLatency.Record(ctx, Milliseconds(duration), attrs)
	if err != nil {
		m.tickErrors.Add(ctx, 1)
	}
}

// RecordTransition records a zone transition.
func (m *otelMetrics) RecordTransition(ctx context.Context, kind string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
