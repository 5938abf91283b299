package event

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/zonebus/pkg/zonebus/observability"
)

// DispatcherConfig configures a Dispatcher. The zero value is usable.
type DispatcherConfig struct {
	// Logger receives handler failures and ignored calls.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records publish counts and latency.
	// Default: observability.NoopMetrics{}
	Metrics observability.MetricsRecorder

	// Spans traces publish calls.
	// Default: observability.NoopSpanManager{}
	Spans observability.SpanManager

	// Schemas, when set, rejects publishes whose payload kind does not
	// match the schema registered for the event type.
	Schemas *SchemaRegistry

	// OnError is called once per failed handler, after every handler of
	// the publish has run.
	OnError func(evt Event, index int, err error)
}

// Dispatcher is a synchronous, in-process publish/subscribe registry.
//
// All methods are safe for concurrent use. Each event type has its own
// subscriber list and lock; locks are held only while a list is copied or
// mutated, never while handlers run, so handlers may call back into the
// dispatcher freely.
type Dispatcher struct {
	config DispatcherConfig
	logger *slog.Logger

	mu     sync.RWMutex
	lists  map[string]*subscriberList
	closed atomic.Bool
}

// subscriberList holds the handlers of one event type in subscription order.
// A list emptied by removal is marked dead and evicted from the registry; a
// dead list never accepts new handlers.
type subscriberList struct {
	mu       sync.Mutex
	handlers []Handler
	dead     bool
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.Metrics == nil {
		config.Metrics = observability.NoopMetrics{}
	}
	if config.Spans == nil {
		config.Spans = observability.NoopSpanManager{}
	}
	return &Dispatcher{
		config: config,
		logger: observability.LoggerOrDefault(config.Logger),
		lists:  make(map[string]*subscriberList),
	}
}

// Subscribe appends h to the subscribers of eventType. Subscribing the same
// handler twice creates two entries. Blank names, nil handlers and handlers
// of a non-comparable type are ignored.
func (d *Dispatcher) Subscribe(eventType string, h Handler) {
	if isBlank(eventType) {
		observability.LogIgnored(d.logger, "subscribe", "blank event type")
		return
	}
	if h == nil {
		observability.LogIgnored(d.logger, "subscribe", "nil handler")
		return
	}
	if !reflect.TypeOf(h).Comparable() {
		observability.LogIgnored(d.logger, "subscribe", "handler type is not comparable")
		return
	}
	if d.closed.Load() {
		observability.LogIgnored(d.logger, "subscribe", "dispatcher closed")
		return
	}

	l := d.acquire(eventType)
	if l == nil {
		observability.LogIgnored(d.logger, "subscribe", "dispatcher closed")
		return
	}
	l.handlers = append(l.handlers, h)
	l.mu.Unlock()
}

// Unsubscribe removes the first entry equal to h from eventType's
// subscribers. It reports whether an entry was removed. Removing the last
// subscriber removes the event type from the registry.
func (d *Dispatcher) Unsubscribe(eventType string, h Handler) bool {
	if isBlank(eventType) || h == nil || !reflect.TypeOf(h).Comparable() {
		return false
	}

	l := d.lookup(eventType)
	if l == nil {
		return false
	}

	idx := slices.Index(l.handlers, h)
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	// Delete in place: snapshots handed to in-flight publishes are copies.
	l.handlers = slices.Delete(l.handlers, idx, idx+1)
	empty := len(l.handlers) == 0
	if empty {
		l.dead = true
	}
	l.mu.Unlock()

	if empty {
		d.evict(eventType, l)
	}
	return true
}

// UnsubscribeAll removes every subscriber of eventType and reports whether
// the event type was registered.
func (d *Dispatcher) UnsubscribeAll(eventType string) bool {
	d.mu.Lock()
	l, ok := d.lists[eventType]
	if ok {
		delete(d.lists, eventType)
	}
	d.mu.Unlock()

	if !ok {
		return false
	}

	l.mu.Lock()
	wasLive := !l.dead
	l.dead = true
	l.handlers = nil
	l.mu.Unlock()
	return wasLive
}

// Publish delivers payload to every handler subscribed to eventType at the
// time of the call, in subscription order, on the caller's goroutine.
//
// A handler that returns an error or panics does not stop delivery to the
// others; failures are captured in the returned Report, logged, and passed
// to OnError. Publish never panics because of a handler. A nil payload or
// blank name makes the call a no-op.
func (d *Dispatcher) Publish(ctx context.Context, eventType string, payload Payload) Report {
	if isNilPayload(payload) {
		observability.LogIgnored(d.logger, "publish", "nil payload")
		return Report{}
	}
	if isBlank(eventType) {
		observability.LogIgnored(d.logger, "publish", "blank event type")
		return Report{}
	}
	if d.closed.Load() {
		observability.LogIgnored(d.logger, "publish", "dispatcher closed")
		return Report{}
	}
	if d.config.Schemas != nil {
		if err := d.config.Schemas.Check(eventType, payload); err != nil {
			observability.LogIgnored(d.logger, "publish", err.Error())
			return Report{}
		}
	}

	snapshot := d.snapshot(eventType)
	if len(snapshot) == 0 {
		return Report{}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	ctx, span := d.config.Spans.StartPublishSpan(ctx, evt.Type, evt.ID)
	done := observability.TimedOperation()

	results := make([]Result, len(snapshot))
	for i, h := range snapshot {
		results[i] = invoke(ctx, evt, i, h)
	}

	report := Report{Event: evt, Results: results, Duration: done()}
	d.reportFailures(ctx, report)

	failed := len(report.Failures())
	d.config.Metrics.RecordPublish(ctx, evt.Type, len(results)-failed, failed, report.Duration)
	observability.LogPublishComplete(d.logger, evt.Type, evt.ID, len(results)-failed, failed,
		observability.Milliseconds(report.Duration))
	d.config.Spans.EndSpanWithError(span, report.Err())

	return report
}

// Subscribers returns the number of handlers subscribed to eventType.
func (d *Dispatcher) Subscribers(eventType string) int {
	l := d.lookup(eventType)
	if l == nil {
		return 0
	}
	defer l.mu.Unlock()
	return len(l.handlers)
}

// Types returns the registered event types in sorted order.
func (d *Dispatcher) Types() []string {
	d.mu.RLock()
	types := make([]string, 0, len(d.lists))
	for t := range d.lists {
		types = append(types, t)
	}
	d.mu.RUnlock()

	sort.Strings(types)
	return types
}

// Close drops every subscription. Later Subscribe and Publish calls are
// ignored. Close is idempotent.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	d.mu.Lock()
	lists := d.lists
	d.lists = make(map[string]*subscriberList)
	d.mu.Unlock()

	for _, l := range lists {
		l.mu.Lock()
		l.dead = true
		l.handlers = nil
		l.mu.Unlock()
	}
	return nil
}

// snapshot copies the current subscribers of eventType.
func (d *Dispatcher) snapshot(eventType string) []Handler {
	l := d.lookup(eventType)
	if l == nil {
		return nil
	}
	defer l.mu.Unlock()
	return slices.Clone(l.handlers)
}

// lookup returns the live list for eventType with its lock held, or nil.
func (d *Dispatcher) lookup(eventType string) *subscriberList {
	for {
		d.mu.RLock()
		l := d.lists[eventType]
		d.mu.RUnlock()

		if l == nil {
			return nil
		}

		l.mu.Lock()
		if !l.dead {
			return l
		}
		l.mu.Unlock()
		d.evict(eventType, l)
	}
}

// acquire returns the live list for eventType with its lock held, creating
// it if needed. It returns nil once the dispatcher is closed.
func (d *Dispatcher) acquire(eventType string) *subscriberList {
	for {
		if l := d.lookup(eventType); l != nil {
			return l
		}

		d.mu.Lock()
		if d.closed.Load() {
			d.mu.Unlock()
			return nil
		}
		if _, ok := d.lists[eventType]; !ok {
			d.lists[eventType] = &subscriberList{}
		}
		d.mu.Unlock()
	}
}

// evict removes l from the registry if it is still the list for eventType.
func (d *Dispatcher) evict(eventType string, l *subscriberList) {
	d.mu.Lock()
	if d.lists[eventType] == l {
		delete(d.lists, eventType)
	}
	d.mu.Unlock()
}

func (d *Dispatcher) reportFailures(ctx context.Context, report Report) {
	for _, res := range report.Failures() {
		observability.LogHandlerFailure(d.logger, report.Event.Type, report.Event.ID, res.Index, res.Err)
		d.config.Spans.AddSpanEvent(ctx, "handler.failed")
		if d.config.OnError != nil {
			d.callOnError(report.Event, res)
		}
	}
}

func (d *Dispatcher) callOnError(evt Event, res Result) {
	defer func() {
		// A panicking hook must not escape Publish.
		if r := recover(); r != nil {
			d.logger.Error("event error hook panicked", slog.Any("panic", r))
		}
	}()
	d.config.OnError(evt, res.Index, res.Err)
}

// invoke runs one handler, converting a panic into a failed Result.
func invoke(ctx context.Context, evt Event, index int, h Handler) (res Result) {
	res.Index = index
	start := time.Now()

	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Panicked = true
			res.Err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	res.Err = h.HandleEvent(ctx, evt)
	return res
}

// isNilPayload reports whether p is nil or a nil pointer to a payload.
func isNilPayload(p Payload) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
