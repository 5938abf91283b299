package zonebus

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/zonebus/pkg/zonebus/config"
	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/watch"
)

// systemConfig holds construction options for New.
type systemConfig struct {
	logger   *slog.Logger
	interval time.Duration
	metrics  bool
	tracing  bool
	schemas  *event.SchemaRegistry
	onError  func(evt event.Event, index int, err error)
	zones    []config.ZoneSpec
}

func defaultSystemConfig() systemConfig {
	return systemConfig{
		interval: watch.DefaultInterval,
		schemas:  event.DefaultSchemas(),
	}
}

// Option configures a System.
type Option func(*systemConfig)

// WithLogger sets the logger shared by the dispatcher and watcher.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *systemConfig) {
		c.logger = logger
	}
}

// WithPollInterval sets the watcher tick period. Non-positive values are
// ignored.
// Default: 100ms
func WithPollInterval(d time.Duration) Option {
	return func(c *systemConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMetrics records publish and tick metrics through the global OTel
// meter provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(c *systemConfig) {
		c.metrics = enabled
	}
}

// WithTracing emits publish and tick spans through the global OTel tracer
// provider.
// Default: false
func WithTracing(enabled bool) Option {
	return func(c *systemConfig) {
		c.tracing = enabled
	}
}

// WithSchemas replaces the payload schemas checked on publish. A nil
// registry turns checking off.
// Default: event.DefaultSchemas()
//
// Example:
//
//	schemas := event.DefaultSchemas()
//	schemas.MustRegister(event.Schema{Type: "Door", Kind: event.KindOpaque})
//	sys, err := zonebus.New(src, zonebus.WithSchemas(schemas))
func WithSchemas(schemas *event.SchemaRegistry) Option {
	return func(c *systemConfig) {
		c.schemas = schemas
	}
}

// WithErrorHandler is called once per failed handler after each publish.
func WithErrorHandler(fn func(evt event.Event, index int, err error)) Option {
	return func(c *systemConfig) {
		c.onError = fn
	}
}

// WithSettings applies loaded settings: poll interval, telemetry switches
// and the zones declared in the file. The logger is left alone; build one
// with Settings.NewLogger and pass it to WithLogger.
func WithSettings(s config.Settings) Option {
	return func(c *systemConfig) {
		if s.PollInterval > 0 {
			c.interval = s.PollInterval
		}
		c.metrics = s.Metrics
		c.tracing = s.Tracing
		c.zones = append(c.zones, s.Zones...)
	}
}
