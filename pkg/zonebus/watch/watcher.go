// Package watch turns continuous observer polling into edge-triggered
// zone enter/leave events.
//
// A Watcher tracks zones by ID. On every tick it samples the observer,
// casts a forward ray against each tracked zone's bounding box, and
// publishes event.TypeZoneEnter or event.TypeZoneLeave only when a zone's
// inside/outside state flips. Steady state publishes nothing.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
	"github.com/randalmurphal/zonebus/pkg/zonebus/observability"
)

// DefaultInterval is the poll period when Config.Interval is unset.
const DefaultInterval = 100 * time.Millisecond

// Config configures a Watcher. The zero value is usable.
type Config struct {
	// Interval between poll ticks.
	// Default: 100ms
	Interval time.Duration

	// Logger receives abandoned ticks and transitions.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records tick and transition counts.
	// Default: observability.NoopMetrics{}
	Metrics observability.MetricsRecorder

	// Spans traces ticks.
	// Default: observability.NoopSpanManager{}
	Spans observability.SpanManager
}

// Watcher polls an ObserverSource and publishes zone transitions.
type Watcher struct {
	pub    Publisher
	src    ObserverSource
	config Config
	logger *slog.Logger

	mu      sync.Mutex
	zones   map[string]*tracked
	nextGen uint64

	ticking atomic.Bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// tracked is the per-zone state. gen changes on every registration so a
// tick that sampled an older registration cannot update the new one.
type tracked struct {
	zone   Zone
	inside bool
	gen    uint64
}

// entry is a tick's copy of a tracked zone.
type entry struct {
	id   string
	zone Zone
	gen  uint64
}

// New creates a watcher publishing through pub. It does not start polling;
// call Start.
func New(pub Publisher, src ObserverSource, config Config) (*Watcher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Metrics == nil {
		config.Metrics = observability.NoopMetrics{}
	}
	if config.Spans == nil {
		config.Spans = observability.NoopSpanManager{}
	}

	return &Watcher{
		pub:    pub,
		src:    src,
		config: config,
		logger: observability.LoggerOrDefault(config.Logger),
		zones:  make(map[string]*tracked),
	}, nil
}

// RegisterZoneForMouseEvents starts tracking zone, replacing any zone with
// the same ID. The zone starts outside; no event is published for the
// replaced registration. A nil zone is ignored.
func (w *Watcher) RegisterZoneForMouseEvents(zone Zone) {
	if zone == nil {
		observability.LogIgnored(w.logger, "register_zone", "nil zone")
		return
	}
	id := zone.ID()

	w.mu.Lock()
	w.nextGen++
	w.zones[id] = &tracked{zone: zone, gen: w.nextGen}
	w.mu.Unlock()
}

// UnregisterZoneForMouseEvents stops tracking zone and forgets its state.
// A nil zone is ignored.
func (w *Watcher) UnregisterZoneForMouseEvents(zone Zone) {
	if zone == nil {
		observability.LogIgnored(w.logger, "unregister_zone", "nil zone")
		return
	}
	id := zone.ID()

	w.mu.Lock()
	delete(w.zones, id)
	w.mu.Unlock()
}

// Tracked returns the IDs of tracked zones in sorted order.
func (w *Watcher) Tracked() []string {
	w.mu.Lock()
	ids := make([]string, 0, len(w.zones))
	for id := range w.zones {
		ids = append(ids, id)
	}
	w.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// IsInside reports the last known state of a zone and whether it is tracked.
func (w *Watcher) IsInside(id string) (inside, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.zones[id]
	if !ok {
		return false, false
	}
	return t.inside, true
}

// Start launches the polling goroutine. Polling stops when ctx is done or
// Stop is called; either way the watcher can be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.done != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx, w.done)
	observability.LogWatcherState(w.logger, "started", w.config.Interval)
	return nil
}

// Stop cancels polling and waits for an in-flight tick to finish. It is
// safe to call more than once, and on a watcher that was never started.
func (w *Watcher) Stop() {
	w.runMu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	observability.LogWatcherState(w.logger, "stopped", w.config.Interval)
}

// Running reports whether the polling goroutine is active.
func (w *Watcher) Running() bool {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	return w.done != nil
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer func() {
		// Polling that ends with the parent context leaves the watcher
		// restartable without a Stop call.
		w.runMu.Lock()
		if w.done == done {
			w.cancel()
			w.cancel, w.done = nil, nil
		}
		w.runMu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are logged and counted inside tick; the next firing
			// starts fresh.
			_ = w.tick(ctx)
		}
	}
}

// tick runs one poll cycle. Any failure abandons the cycle before zone
// state changes.
func (w *Watcher) tick(ctx context.Context) (err error) {
	if !w.ticking.CompareAndSwap(false, true) {
		return ErrTickInProgress
	}
	defer w.ticking.Store(false)

	done := observability.TimedOperation()
	ctx, span := w.config.Spans.StartTickSpan(ctx, w.count())

	defer func() {
		if r := recover(); r != nil {
			err = &TickError{Op: "evaluate", Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			observability.LogTickError(w.logger, err)
		}
		w.config.Metrics.RecordTick(ctx, done(), err)
		w.config.Spans.EndSpanWithError(span, err)
	}()

	obs, err := w.src.Observe(ctx)
	if err != nil {
		return &TickError{Op: "observe", Err: err}
	}
	if !obs.HasDirection() {
		return nil
	}

	entries := w.snapshot()
	hits := make([]bool, len(entries))
	for i, e := range entries {
		hits[i] = obs.Intersects(e.zone.Bounds())
	}

	for _, zp := range w.apply(entries, hits, obs) {
		observability.LogTransition(w.logger, zp.ZoneID, string(zp.Kind))
		w.config.Metrics.RecordTransition(ctx, string(zp.Kind))
		w.pub.Publish(ctx, zp.Kind.EventType(), zp)
	}
	return nil
}

func (w *Watcher) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.zones)
}

// snapshot copies the tracked zones, ordered by ID.
func (w *Watcher) snapshot() []entry {
	w.mu.Lock()
	entries := make([]entry, 0, len(w.zones))
	for id, t := range w.zones {
		entries = append(entries, entry{id: id, zone: t.zone, gen: t.gen})
	}
	w.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}

// apply feeds hit results into the per-zone state machines and returns the
// payloads to publish. Zones removed or re-registered since the snapshot
// are skipped.
func (w *Watcher) apply(entries []entry, hits []bool, obs geom.Observer) []event.ZonePayload {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []event.ZonePayload
	for i, e := range entries {
		t, ok := w.zones[e.id]
		if !ok || t.gen != e.gen || t.inside == hits[i] {
			continue
		}

		t.inside = hits[i]
		kind := event.ZoneLeave
		if t.inside {
			kind = event.ZoneEnter
		}
		out = append(out, event.ZonePayload{
			ZoneID:    e.id,
			Kind:      kind,
			Origin:    obs.Origin,
			Direction: obs.Direction,
		})
	}
	return out
}
