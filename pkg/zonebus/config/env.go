package config

import (
	"fmt"
	"maps"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the ZONEBUS_* variables. Unset variables leave the
// file value alone.
type envOverrides struct {
	PollInterval *time.Duration `env:"ZONEBUS_POLL_INTERVAL"`
	LogLevel     *string        `env:"ZONEBUS_LOG_LEVEL"`
	LogFormat    *string        `env:"ZONEBUS_LOG_FORMAT"`
	Metrics      *bool          `env:"ZONEBUS_METRICS"`
	Tracing      *bool          `env:"ZONEBUS_TRACING"`
	StorePath    *string        `env:"ZONEBUS_DB"`
}

// WithEnv returns a copy of c with ZONEBUS_* environment variables applied
// on top. environ replaces the process environment when non-nil.
//
//	ZONEBUS_POLL_INTERVAL  poll_interval
//	ZONEBUS_LOG_LEVEL      log.level
//	ZONEBUS_LOG_FORMAT     log.format
//	ZONEBUS_METRICS        telemetry.metrics
//	ZONEBUS_TRACING        telemetry.tracing
//	ZONEBUS_DB             store.path
func WithEnv(c Config, environ map[string]string) (Config, error) {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	out := maps.Clone(c.data)
	if out == nil {
		out = make(map[string]any)
	}
	set := func(section, key string, v any) {
		m := maps.Clone(New(out).Section(section).Raw())
		m[key] = v
		out[section] = m
	}

	if o.PollInterval != nil {
		out["poll_interval"] = *o.PollInterval
	}
	if o.LogLevel != nil {
		set("log", "level", *o.LogLevel)
	}
	if o.LogFormat != nil {
		set("log", "format", *o.LogFormat)
	}
	if o.Metrics != nil {
		set("telemetry", "metrics", *o.Metrics)
	}
	if o.Tracing != nil {
		set("telemetry", "tracing", *o.Tracing)
	}
	if o.StorePath != nil {
		set("store", "path", *o.StorePath)
	}
	return New(out), nil
}
