package zonebus

import (
	"context"
	"fmt"
	"sync"

	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/observability"
	"github.com/randalmurphal/zonebus/pkg/zonebus/watch"
	"github.com/randalmurphal/zonebus/pkg/zonebus/zonestore"
)

// System is one event bus with its zone watcher.
type System struct {
	dispatcher *event.Dispatcher
	watcher    *watch.Watcher

	mu     sync.Mutex
	closed bool
}

// New builds a dispatcher and a watcher sampling src. Zones from
// WithSettings are registered; polling does not begin until Start.
func New(src watch.ObserverSource, opts ...Option) (*System, error) {
	cfg := defaultSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	metrics := observability.Metrics(cfg.metrics)
	spans := observability.Spans(cfg.tracing)

	d := event.NewDispatcher(event.DispatcherConfig{
		Logger:  cfg.logger,
		Metrics: metrics,
		Spans:   spans,
		Schemas: cfg.schemas,
		OnError: cfg.onError,
	})

	w, err := watch.New(d, src, watch.Config{
		Interval: cfg.interval,
		Logger:   cfg.logger,
		Metrics:  metrics,
		Spans:    spans,
	})
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, z := range cfg.zones {
		w.RegisterZoneForMouseEvents(watch.NewStaticZone(z.ID, z.Box))
	}

	return &System{dispatcher: d, watcher: w}, nil
}

// Subscribe appends h to the handlers of eventType.
func (s *System) Subscribe(eventType string, h event.Handler) {
	s.dispatcher.Subscribe(eventType, h)
}

// Unsubscribe removes the first registration of h for eventType.
func (s *System) Unsubscribe(eventType string, h event.Handler) bool {
	return s.dispatcher.Unsubscribe(eventType, h)
}

// UnsubscribeAll drops every handler of eventType.
func (s *System) UnsubscribeAll(eventType string) bool {
	return s.dispatcher.UnsubscribeAll(eventType)
}

// Publish delivers payload to the current handlers of eventType.
func (s *System) Publish(ctx context.Context, eventType string, payload event.Payload) event.Report {
	return s.dispatcher.Publish(ctx, eventType, payload)
}

// RegisterZoneForMouseEvents starts tracking zone.
func (s *System) RegisterZoneForMouseEvents(zone watch.Zone) {
	s.watcher.RegisterZoneForMouseEvents(zone)
}

// UnregisterZoneForMouseEvents stops tracking zone.
func (s *System) UnregisterZoneForMouseEvents(zone watch.Zone) {
	s.watcher.UnregisterZoneForMouseEvents(zone)
}

// LoadZones registers every zone in store and returns how many were loaded.
func (s *System) LoadZones(store zonestore.Store) (int, error) {
	if store == nil {
		return 0, ErrNilStore
	}
	recs, err := store.List()
	if err != nil {
		return 0, fmt.Errorf("load zones: %w", err)
	}
	for _, rec := range recs {
		s.watcher.RegisterZoneForMouseEvents(rec.Zone())
	}
	return len(recs), nil
}

// Start begins polling. It returns ErrClosed after Close and
// watch.ErrAlreadyRunning if polling is active.
func (s *System) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.watcher.Start(ctx)
}

// Close stops polling, waits for an in-flight tick and drops all
// subscriptions. It is idempotent.
func (s *System) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.watcher.Stop()
	return s.dispatcher.Close()
}

// Dispatcher returns the underlying event bus.
func (s *System) Dispatcher() *event.Dispatcher { return s.dispatcher }

// Watcher returns the underlying zone watcher.
func (s *System) Watcher() *watch.Watcher { return s.watcher }
