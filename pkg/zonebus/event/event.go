package event

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

// Built-in event types published by the zone watcher.
const (
	TypeZoneEnter = "SpatialZoneMouseEnter"
	TypeZoneLeave = "SpatialZoneMouseLeave"
)

// PayloadKind identifies a payload variant.
type PayloadKind string

// Payload kinds.
const (
	KindZone   PayloadKind = "zone"
	KindOpaque PayloadKind = "opaque"
)

// Payload is the data carried by an event. The set of variants is closed:
// ZonePayload for the built-in zone events and Opaque for everything else.
type Payload interface {
	PayloadKind() PayloadKind
	payload()
}

// ZoneEventKind says which edge a zone event reports.
type ZoneEventKind string

// Zone event kinds.
const (
	ZoneEnter ZoneEventKind = "Enter"
	ZoneLeave ZoneEventKind = "Leave"
)

// EventType returns the built-in event type name for the kind.
func (k ZoneEventKind) EventType() string {
	switch k {
	case ZoneEnter:
		return TypeZoneEnter
	case ZoneLeave:
		return TypeZoneLeave
	}
	panic(fmt.Sprintf("event: unknown zone event kind %q", string(k)))
}

// ZonePayload is published when the observer's ray starts or stops hitting a
// tracked zone. Field names are part of the subscriber contract.
type ZonePayload struct {
	ZoneID    string        `json:"zone_id"`
	Kind      ZoneEventKind `json:"kind"`
	Origin    geom.Vec3i    `json:"origin"`
	Direction geom.Vec3f    `json:"direction"`
}

// PayloadKind implements Payload.
func (ZonePayload) PayloadKind() PayloadKind { return KindZone }
func (ZonePayload) payload()                 {}

// Opaque carries caller-supplied data through the bus unmodified.
type Opaque struct {
	Data any `json:"data"`
}

// PayloadKind implements Payload.
func (Opaque) PayloadKind() PayloadKind { return KindOpaque }
func (Opaque) payload()                 {}

// Event is what handlers receive. Every handler invoked by one Publish call
// sees the same Event.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// Zone returns the zone payload, if the event carries one.
func (e Event) Zone() (ZonePayload, bool) {
	z, ok := e.Payload.(ZonePayload)
	return z, ok
}

// Data returns the opaque data for user events, or the payload itself for
// built-in ones.
func (e Event) Data() any {
	if o, ok := e.Payload.(Opaque); ok {
		return o.Data
	}
	return e.Payload
}

// Handler processes events delivered by a Dispatcher.
//
// Handlers are identified by interface equality when unsubscribing, so the
// dynamic type must be comparable. Pointer types always are.
type Handler interface {
	HandleEvent(ctx context.Context, evt Event) error
}

type funcHandler struct {
	fn func(ctx context.Context, evt Event) error
}

func (h *funcHandler) HandleEvent(ctx context.Context, evt Event) error {
	return h.fn(ctx, evt)
}

// NewHandler wraps fn in a Handler. Each call returns a distinct handler, so
// keep the result to unsubscribe later. A nil fn yields a nil Handler.
func NewHandler(fn func(ctx context.Context, evt Event) error) Handler {
	if fn == nil {
		return nil
	}
	return &funcHandler{fn: fn}
}

// ZoneHandler adapts a function over zone payloads. Events with any other
// payload are rejected with ErrUnexpectedPayload.
func ZoneHandler(fn func(ctx context.Context, zp ZonePayload) error) Handler {
	if fn == nil {
		return nil
	}
	return NewHandler(func(ctx context.Context, evt Event) error {
		zp, ok := evt.Zone()
		if !ok {
			return fmt.Errorf("%w: %s carries %T", ErrUnexpectedPayload, evt.Type, evt.Payload)
		}
		return fn(ctx, zp)
	})
}
