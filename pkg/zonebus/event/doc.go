// Package event implements the in-process publish/subscribe core of zonebus.
//
// # Dispatcher
//
// A Dispatcher maps event type names to ordered lists of handlers:
//
//	d := event.NewDispatcher(event.DispatcherConfig{Logger: logger})
//
//	h := event.NewHandler(func(ctx context.Context, evt event.Event) error {
//	    fmt.Println(evt.Type, evt.Data())
//	    return nil
//	})
//	d.Subscribe("order.created", h)
//	defer d.Unsubscribe("order.created", h)
//
//	report := d.Publish(ctx, "order.created", event.Opaque{Data: order})
//	if err := report.Err(); err != nil {
//	    // one or more handlers failed; the others still ran
//	}
//
// Publish runs handlers synchronously on the calling goroutine against a
// snapshot of the subscriber list taken at call time. Subscribing or
// unsubscribing from inside a handler affects the next Publish, not the
// current one. Each handler's error or panic is captured in its own Result.
//
// # Payloads
//
// Payloads are typed. The built-in zone events carry ZonePayload:
//
//	d.Subscribe(event.TypeZoneEnter, event.ZoneHandler(
//	    func(ctx context.Context, zp event.ZonePayload) error {
//	        log.Printf("entered %s from %v", zp.ZoneID, zp.Origin)
//	        return nil
//	    }))
//
// Any other event type carries Opaque, whose Data is passed through as is.
// A SchemaRegistry attached to the dispatcher rejects payloads of the wrong
// kind for registered types; DefaultSchemas registers the zone events.
package event
