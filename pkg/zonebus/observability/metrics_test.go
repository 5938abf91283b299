package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a manual-reader meter provider for the test.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	var total int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		for _, attr := range dp.Attributes.ToSlice() {
			if string(attr.Key) == key && attr.Value.Emit() == value {
				total += dp.Value
			}
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordPublish(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("counts publishes per event type", func(t *testing.T) {
		m.RecordPublish(ctx, "alpha", 2, 0, 3*time.Millisecond)
		m.RecordPublish(ctx, "alpha", 1, 0, time.Millisecond)

		rm := collectMetrics(t, reader)
		assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "zonebus.publish.count"), "event_type", "alpha"))
		assert.NotNil(t, findMetric(rm, "zonebus.publish.latency_ms"))
	})

	t.Run("counts handler failures", func(t *testing.T) {
		m.RecordPublish(ctx, "beta", 1, 2, time.Millisecond)

		rm := collectMetrics(t, reader)
		assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "zonebus.handler.failures"), "event_type", "beta"))
	})
}

func TestRecordTickAndTransition(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordTick(ctx, time.Millisecond, nil)
	m.RecordTick(ctx, time.Millisecond, errors.New("provider down"))
	m.RecordTransition(ctx, "Enter")
	m.RecordTransition(ctx, "Enter")
	m.RecordTransition(ctx, "Leave")

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "zonebus.tick.count"), "", ""))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "zonebus.tick.errors"), "", ""))
	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "zonebus.zone.transitions"), "kind", "Enter"))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "zonebus.zone.transitions"), "kind", "Leave"))

	hist := findMetric(rm, "zonebus.tick.latency_ms")
	require.NotNil(t, hist)
	_, ok := hist.Data.(metricdata.Histogram[float64])
	assert.True(t, ok, "Expected Histogram type")
}
