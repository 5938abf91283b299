package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

// Settings is the resolved runtime configuration of a zonebus process.
type Settings struct {
	// PollInterval is the zone watcher tick period.
	PollInterval time.Duration

	// LogLevel and LogFormat ("text" or "json") configure the slog handler.
	LogLevel  slog.Level
	LogFormat string

	// Metrics and Tracing switch the OTel recorders on.
	Metrics bool
	Tracing bool

	// StorePath is the SQLite zone catalogue. Empty means in-memory.
	StorePath string

	// Zones are registered at startup in addition to the catalogue.
	Zones []ZoneSpec
}

// ZoneSpec is a zone declared in a config file.
type ZoneSpec struct {
	ID    string
	Label string
	Box   geom.AABB
}

// DefaultSettings returns the settings used for missing keys.
func DefaultSettings() Settings {
	return Settings{
		PollInterval: 100 * time.Millisecond,
		LogLevel:     slog.LevelInfo,
		LogFormat:    "text",
	}
}

// SettingsFrom resolves Settings from a loaded Config:
//
//	poll_interval: 100ms
//	log:
//	  level: debug
//	  format: json
//	telemetry:
//	  metrics: true
//	  tracing: false
//	store:
//	  path: zones.db
//	zones:
//	  - id: vault
//	    min: [5, -1, -1]
//	    max: [10, 1, 1]
func SettingsFrom(c Config) (Settings, error) {
	s := DefaultSettings()

	s.PollInterval = c.Duration("poll_interval", s.PollInterval)
	if s.PollInterval <= 0 {
		return Settings{}, fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval)
	}

	logCfg := c.Section("log")
	if lvl := logCfg.String("level", ""); lvl != "" {
		if err := s.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Settings{}, fmt.Errorf("log.level: %w", err)
		}
	}
	s.LogFormat = strings.ToLower(logCfg.String("format", s.LogFormat))
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return Settings{}, fmt.Errorf("log.format must be text or json, got %q", s.LogFormat)
	}

	telemetry := c.Section("telemetry")
	s.Metrics = telemetry.Bool("metrics", s.Metrics)
	s.Tracing = telemetry.Bool("tracing", s.Tracing)

	s.StorePath = c.Section("store").String("path", s.StorePath)

	for i, zc := range c.Sections("zones") {
		spec, err := zoneSpecFrom(zc)
		if err != nil {
			return Settings{}, fmt.Errorf("zones[%d]: %w", i, err)
		}
		s.Zones = append(s.Zones, spec)
	}

	return s, nil
}

func zoneSpecFrom(c Config) (ZoneSpec, error) {
	id := c.String("id", "")
	if strings.TrimSpace(id) == "" {
		return ZoneSpec{}, fmt.Errorf("id is required")
	}
	lo, err := corner(c, "min")
	if err != nil {
		return ZoneSpec{}, err
	}
	hi, err := corner(c, "max")
	if err != nil {
		return ZoneSpec{}, err
	}
	return ZoneSpec{
		ID:    id,
		Label: c.String("label", ""),
		Box:   geom.Box(lo, hi),
	}, nil
}

func corner(c Config, key string) (geom.Vec3i, error) {
	v, ok := c.Ints(key)
	if !ok || len(v) != 3 {
		return geom.Vec3i{}, fmt.Errorf("%s must be a list of 3 integers", key)
	}
	return geom.V3i(v[0], v[1], v[2]), nil
}

// NewLogger builds a slog logger writing to w per the log settings.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
