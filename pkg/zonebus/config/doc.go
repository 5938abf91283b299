/*
Package config loads zonebus settings from YAML, JSON or TOML files.

# Overview

Config wraps a map[string]any and provides typed accessor methods that
handle missing keys and type mismatches by returning default values:

	cfg := config.New(map[string]any{
	    "poll_interval": "50ms",
	    "telemetry":     map[string]any{"metrics": true},
	})

	interval := cfg.Duration("poll_interval", 100*time.Millisecond) // 50ms
	metrics := cfg.Section("telemetry").Bool("metrics", false)      // true

Durations given as bare numbers are milliseconds.

# File Loading

	cfg, err := config.FromFile("zonebus.toml")
	if err != nil {
	    log.Fatal(err)
	}
	settings, err := config.SettingsFrom(cfg)

SettingsFrom validates the result and resolves defaults (100ms poll
interval, info-level text logging, telemetry off, in-memory zone store).
*/
package config
