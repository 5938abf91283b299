/*
Package zonebus wires an in-process event bus to a spatial zone watcher.

A System owns one event.Dispatcher and one watch.Watcher. The watcher
samples an observer (an integer origin and a direction) on a fixed
period, casts a forward ray against every registered zone's axis-aligned
box, and publishes SpatialZoneMouseEnter or SpatialZoneMouseLeave on the
dispatcher when a zone's state flips.

# Quick Start

	state := &watch.ObserverState{}
	sys, err := zonebus.New(state, zonebus.WithPollInterval(50*time.Millisecond))
	if err != nil {
	    log.Fatal(err)
	}
	defer sys.Close()

	sys.Subscribe(event.TypeZoneEnter, event.ZoneHandler(
	    func(ctx context.Context, zp event.ZonePayload) error {
	        log.Printf("entered %s", zp.ZoneID)
	        return nil
	    }))

	sys.RegisterZoneForMouseEvents(watch.NewStaticZone("vault",
	    geom.Box(geom.V3i(5, -1, -1), geom.V3i(10, 1, 1))))

	state.Set(geom.V3i(0, 0, 0), geom.V3f(1, 0, 0))
	if err := sys.Start(ctx); err != nil {
	    log.Fatal(err)
	}

# Delivery

Publish is synchronous: handlers run on the publishing goroutine in
subscription order against a snapshot of the subscriber list. A failing
or panicking handler does not stop the others; the returned event.Report
carries one Result per handler.

# Zone Catalogue

Zones can be kept between runs in a zonestore.Store and registered with
LoadZones. Zones declared in a config file are registered by
WithSettings.

# Telemetry

WithMetrics and WithTracing route through the global OpenTelemetry
providers. Both are off by default.
*/
package zonebus
