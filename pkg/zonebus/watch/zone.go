package watch

import (
	"context"
	"sync"

	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

// Zone is a region the watcher can track. The watcher never owns zone
// geometry; it reads Bounds on every tick.
type Zone interface {
	ID() string
	Bounds() geom.AABB
}

// StaticZone is an immutable Zone.
type StaticZone struct {
	id  string
	box geom.AABB
}

// NewStaticZone creates a zone with fixed bounds.
func NewStaticZone(id string, box geom.AABB) *StaticZone {
	return &StaticZone{id: id, box: box}
}

// ID implements Zone.
func (z *StaticZone) ID() string { return z.id }

// Bounds implements Zone.
func (z *StaticZone) Bounds() geom.AABB { return z.box }

// ObserverSource supplies the observer state for a tick.
type ObserverSource interface {
	Observe(ctx context.Context) (geom.Observer, error)
}

// ObserverFunc adapts a function to ObserverSource.
type ObserverFunc func(ctx context.Context) (geom.Observer, error)

// Observe implements ObserverSource.
func (f ObserverFunc) Observe(ctx context.Context) (geom.Observer, error) {
	return f(ctx)
}

// ObserverState is an ObserverSource the host updates as its camera or
// pointer moves. The zero value reports the zero direction, which makes the
// watcher skip ticks until the first Set.
type ObserverState struct {
	mu  sync.RWMutex
	obs geom.Observer
}

// Set replaces the current observer state. dir is normalized.
func (s *ObserverState) Set(origin geom.Vec3i, dir geom.Vec3f) {
	s.mu.Lock()
	s.obs = geom.Observer{Origin: origin, Direction: dir.Normalize()}
	s.mu.Unlock()
}

// Observe implements ObserverSource.
func (s *ObserverState) Observe(context.Context) (geom.Observer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obs, nil
}

// Publisher is the part of event.Dispatcher the watcher needs.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload event.Payload) event.Report
}
