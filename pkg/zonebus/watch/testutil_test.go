package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

// capture subscribes to both zone event types and records payloads.
type capture struct {
	mu     sync.Mutex
	events []event.ZonePayload
}

func newCapture(d *event.Dispatcher) *capture {
	c := &capture{}
	h := event.ZoneHandler(func(_ context.Context, zp event.ZonePayload) error {
		c.mu.Lock()
		c.events = append(c.events, zp)
		c.mu.Unlock()
		return nil
	})
	d.Subscribe(event.TypeZoneEnter, h)
	d.Subscribe(event.TypeZoneLeave, h)
	return c
}

func (c *capture) take() []event.ZonePayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}

func (c *capture) kinds() []string {
	var kinds []string
	for _, zp := range c.take() {
		kinds = append(kinds, zp.ZoneID+":"+string(zp.Kind))
	}
	return kinds
}

// countingZone counts Bounds calls.
type countingZone struct {
	id    string
	box   geom.AABB
	calls atomic.Int32
}

func (z *countingZone) ID() string { return z.id }

func (z *countingZone) Bounds() geom.AABB {
	z.calls.Add(1)
	return z.box
}

// panickyZone panics when its geometry is read.
type panickyZone struct{ id string }

func (z *panickyZone) ID() string        { return z.id }
func (z *panickyZone) Bounds() geom.AABB { panic("geometry unavailable") }

var errSourceDown = errors.New("observer source down")

// ahead is a box straight down +X from the origin.
var ahead = geom.Box(geom.V3i(5, -1, -1), geom.V3i(10, 1, 1))

var (
	lookPosX = geom.V3f(1, 0, 0)
	lookNegX = geom.V3f(-1, 0, 0)
)

func newTestWatcher(src ObserverSource) (*Watcher, *event.Dispatcher, *capture) {
	d := event.NewDispatcher(event.DispatcherConfig{Schemas: event.DefaultSchemas()})
	c := newCapture(d)
	w, err := New(d, src, Config{})
	if err != nil {
		panic(err)
	}
	return w, d, c
}
