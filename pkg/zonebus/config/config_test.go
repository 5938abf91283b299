package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/zonebus/pkg/zonebus/config"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"string", map[string]any{"d": "250ms"}, "d", time.Second, 250 * time.Millisecond},
		{"int millis", map[string]any{"d": 40}, "d", time.Second, 40 * time.Millisecond},
		{"int64 millis", map[string]any{"d": int64(15)}, "d", time.Second, 15 * time.Millisecond},
		{"float millis", map[string]any{"d": 1.5}, "d", time.Second, 1500 * time.Microsecond},
		{"duration", map[string]any{"d": 3 * time.Second}, "d", time.Second, 3 * time.Second},
		{"bad string", map[string]any{"d": "soon"}, "d", time.Second, time.Second},
		{"missing", map[string]any{}, "d", time.Second, time.Second},
		{"wrong type", map[string]any{"d": true}, "d", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Duration(tt.key, tt.defaultVal))
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		defaultVal int
		want       int
	}{
		{"int", map[string]any{"n": 7}, 0, 7},
		{"int64", map[string]any{"n": int64(-3)}, 0, -3},
		{"whole float", map[string]any{"n": 4.0}, 0, 4},
		{"fractional float", map[string]any{"n": 4.5}, 9, 9},
		{"string", map[string]any{"n": "4"}, 9, 9},
		{"missing", nil, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).Int("n", tt.defaultVal))
		})
	}
}

func TestStringAndBool(t *testing.T) {
	cfg := config.New(map[string]any{"s": "x", "b": true, "n": 1})

	assert.Equal(t, "x", cfg.String("s", "d"))
	assert.Equal(t, "d", cfg.String("n", "d"))
	assert.True(t, cfg.Bool("b", false))
	assert.True(t, cfg.Bool("missing", true))
	assert.True(t, cfg.Has("n"))
	assert.False(t, cfg.Has("missing"))
}

func TestSection(t *testing.T) {
	cfg := config.New(map[string]any{
		"log":  map[string]any{"level": "debug"},
		"flat": "value",
	})

	assert.Equal(t, "debug", cfg.Section("log").String("level", ""))
	assert.Empty(t, cfg.Section("flat").Raw())
	assert.Empty(t, cfg.Section("missing").Raw())
}

func TestSectionsAndInts(t *testing.T) {
	cfg := config.New(map[string]any{
		"zones": []any{
			map[string]any{"id": "a", "min": []any{1, int64(2), 3.0}},
			"skipped",
		},
		"bad": []any{1, "two", 3},
	})

	zones := cfg.Sections("zones")
	require.Len(t, zones, 1)

	v, ok := zones[0].Ints("min")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, v)

	_, ok = cfg.Ints("bad")
	assert.False(t, ok)
	_, ok = cfg.Ints("missing")
	assert.False(t, ok)
	assert.Nil(t, cfg.Sections("missing"))
}

const yamlSettings = `
poll_interval: 50ms
log:
  level: debug
  format: json
telemetry:
  metrics: true
store:
  path: zones.db
zones:
  - id: vault
    label: Vault
    min: [10, 1, 1]
    max: [5, -1, -1]
`

const jsonSettings = `{
  "poll_interval": 50,
  "log": {"level": "debug", "format": "json"},
  "telemetry": {"metrics": true},
  "store": {"path": "zones.db"},
  "zones": [{"id": "vault", "label": "Vault", "min": [10, 1, 1], "max": [5, -1, -1]}]
}`

const tomlSettings = `
poll_interval = "50ms"

[log]
level = "debug"
format = "json"

[telemetry]
metrics = true

[store]
path = "zones.db"

[[zones]]
id = "vault"
label = "Vault"
min = [10, 1, 1]
max = [5, -1, -1]
`

func TestFromFile_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"zonebus.yaml", yamlSettings},
		{"zonebus.yml", yamlSettings},
		{"zonebus.json", jsonSettings},
		{"zonebus.toml", tomlSettings},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := config.FromFile(path)
			require.NoError(t, err)

			s, err := config.SettingsFrom(cfg)
			require.NoError(t, err)

			assert.Equal(t, 50*time.Millisecond, s.PollInterval)
			assert.Equal(t, slog.LevelDebug, s.LogLevel)
			assert.Equal(t, "json", s.LogFormat)
			assert.True(t, s.Metrics)
			assert.False(t, s.Tracing)
			assert.Equal(t, "zones.db", s.StorePath)

			require.Len(t, s.Zones, 1)
			assert.Equal(t, "vault", s.Zones[0].ID)
			assert.Equal(t, "Vault", s.Zones[0].Label)
			// corners are reordered
			assert.Equal(t, geom.Box(geom.V3i(5, -1, -1), geom.V3i(10, 1, 1)), s.Zones[0].Box)
		})
	}
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.FromFile("")
	assert.Error(t, err)

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	ini := filepath.Join(dir, "zonebus.ini")
	require.NoError(t, os.WriteFile(ini, []byte("a=b"), 0o600))
	_, err = config.FromFile(ini)
	assert.ErrorContains(t, err, "unsupported")

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("= nope"), 0o600))
	_, err = config.FromFile(broken)
	assert.Error(t, err)
}

func TestSettingsFrom_Defaults(t *testing.T) {
	s, err := config.SettingsFrom(config.New(nil))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
	assert.Equal(t, 100*time.Millisecond, s.PollInterval)
}

func TestSettingsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"zero interval", map[string]any{"poll_interval": "0s"}},
		{"bad level", map[string]any{"log": map[string]any{"level": "loud"}}},
		{"bad format", map[string]any{"log": map[string]any{"format": "xml"}}},
		{"zone without id", map[string]any{"zones": []any{
			map[string]any{"min": []any{0, 0, 0}, "max": []any{1, 1, 1}},
		}}},
		{"short corner", map[string]any{"zones": []any{
			map[string]any{"id": "z", "min": []any{0, 0}, "max": []any{1, 1, 1}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.SettingsFrom(config.New(tt.data))
			assert.Error(t, err)
		})
	}
}
