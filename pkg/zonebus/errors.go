package zonebus

import "errors"

// Sentinel errors for System lifecycle.
var (
	// ErrClosed indicates the System has been closed.
	ErrClosed = errors.New("zonebus: system closed")

	// ErrNilStore indicates LoadZones was called without a store.
	ErrNilStore = errors.New("zonebus: nil zone store")
)
