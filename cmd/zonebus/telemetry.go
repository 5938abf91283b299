package main

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/zonebus/pkg/zonebus/config"
)

// telemetry owns the OTel SDK providers installed for a run.
type telemetry struct {
	logger *slog.Logger
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	tp     *sdktrace.TracerProvider
}

// setupTelemetry installs global providers for the enabled signals.
// Metrics are collected once at shutdown and logged; spans are logged as
// they end.
func setupTelemetry(s config.Settings, logger *slog.Logger) *telemetry {
	t := &telemetry{logger: logger}

	if s.Metrics {
		t.reader = sdkmetric.NewManualReader()
		t.mp = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
		otel.SetMeterProvider(t.mp)
	}
	if s.Tracing {
		t.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger}))
		otel.SetTracerProvider(t.tp)
	}
	return t
}

// Shutdown logs the metric summary and flushes both providers.
func (t *telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.reader != nil {
		var rm metricdata.ResourceMetrics
		if err := t.reader.Collect(ctx, &rm); err != nil {
			errs = append(errs, err)
		} else {
			t.logSummary(rm)
		}
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetry) logSummary(rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				t.logger.Info("metric", "name", m.Name, "total", total)
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				mean := 0.0
				if count > 0 {
					mean = sum / float64(count)
				}
				t.logger.Info("metric", "name", m.Name, "count", count, "mean", mean)
			}
		}
	}
}

// logExporter writes finished spans to the logger at debug level.
type logExporter struct {
	logger *slog.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.Debug("span",
			"name", s.Name(),
			"trace_id", s.SpanContext().TraceID().String(),
			"duration_ms", float64(s.EndTime().Sub(s.StartTime()).Microseconds())/1000,
			"status", s.Status().Code.String())
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error { return nil }
