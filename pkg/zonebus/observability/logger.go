// Package observability provides the logging, metrics and tracing hooks used
// by the dispatcher and the zone watcher.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LoggerOrDefault returns logger, or slog.Default() when logger is nil.
func LoggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogIgnored logs a call that was dropped as an invalid argument.
func LogIgnored(logger *slog.Logger, op, reason string) {
	if logger == nil {
		return
	}
	logger.Debug("call ignored",
		slog.String("op", op),
		slog.String("reason", reason),
	)
}

// LogHandlerFailure logs a single subscriber failure during a publish.
func LogHandlerFailure(logger *slog.Logger, eventType, eventID string, index int, err error) {
	if logger == nil {
		return
	}
	logger.Error("event handler failed",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.Int("handler_index", index),
		slog.String("error", err.Error()),
	)
}

// LogPublishComplete logs a finished publish.
func LogPublishComplete(logger *slog.Logger, eventType, eventID string, delivered, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event published",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTickError logs an abandoned poll tick.
func LogTickError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("poll tick abandoned",
		slog.String("error", err.Error()),
	)
}

// LogTransition logs a zone crossing an enter/leave edge.
func LogTransition(logger *slog.Logger, zoneID, kind string) {
	if logger == nil {
		return
	}
	logger.Debug("zone transition",
		slog.String("zone_id", zoneID),
		slog.String("kind", kind),
	)
}

// LogWatcherState logs watcher start and stop.
func LogWatcherState(logger *slog.Logger, state string, interval time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("zone watcher "+state,
		slog.Duration("interval", interval),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log fields.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
