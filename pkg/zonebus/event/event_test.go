package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

func TestZoneEventKind_EventType(t *testing.T) {
	assert.Equal(t, "SpatialZoneMouseEnter", event.ZoneEnter.EventType())
	assert.Equal(t, "SpatialZoneMouseLeave", event.ZoneLeave.EventType())
	assert.Panics(t, func() { event.ZoneEventKind("Hover").EventType() })
}

func TestZonePayload_JSONShape(t *testing.T) {
	zp := event.ZonePayload{
		ZoneID:    "vault",
		Kind:      event.ZoneEnter,
		Origin:    geom.V3i(1, 2, 3),
		Direction: geom.V3f(0, 0, 1),
	}

	data, err := json.Marshal(zp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"zone_id":"vault","kind":"Enter","origin":{"x":1,"y":2,"z":3},"direction":{"x":0,"y":0,"z":1}}`,
		string(data))
}

func TestPayloadKind(t *testing.T) {
	var p event.Payload = event.ZonePayload{Kind: event.ZoneLeave}
	assert.Equal(t, event.KindZone, p.PayloadKind())
	assert.Equal(t, event.ZoneLeave, p.(event.ZonePayload).Kind)

	p = event.Opaque{Data: 1}
	assert.Equal(t, event.KindOpaque, p.PayloadKind())
}

func TestEventAccessors(t *testing.T) {
	zp := event.ZonePayload{ZoneID: "z"}
	evt := event.Event{Payload: zp}

	got, ok := evt.Zone()
	assert.True(t, ok)
	assert.Equal(t, zp, got)
	assert.Equal(t, zp, evt.Data())

	evt = event.Event{Payload: event.Opaque{Data: "raw"}}
	_, ok = evt.Zone()
	assert.False(t, ok)
	assert.Equal(t, "raw", evt.Data())
}

func TestNewHandler_DistinctIdentity(t *testing.T) {
	fn := func(context.Context, event.Event) error { return nil }
	a, b := event.NewHandler(fn), event.NewHandler(fn)

	assert.False(t, a == b, "each NewHandler call must yield a new identity")
	assert.Nil(t, event.NewHandler(nil))
	assert.Nil(t, event.ZoneHandler(nil))
}

func TestZoneHandler(t *testing.T) {
	var got event.ZonePayload
	h := event.ZoneHandler(func(ctx context.Context, zp event.ZonePayload) error {
		got = zp
		return nil
	})

	zp := event.ZonePayload{ZoneID: "hall", Kind: event.ZoneLeave}
	require.NoError(t, h.HandleEvent(context.Background(), event.Event{Type: event.TypeZoneLeave, Payload: zp}))
	assert.Equal(t, zp, got)

	err := h.HandleEvent(context.Background(), event.Event{Type: "x", Payload: event.Opaque{}})
	assert.True(t, errors.Is(err, event.ErrUnexpectedPayload))
}
