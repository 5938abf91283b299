package watch

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrAlreadyRunning is returned by Start on a running watcher.
	ErrAlreadyRunning = errors.New("watcher is already running")

	// ErrTickInProgress is returned when a tick is requested while another
	// tick is still running.
	ErrTickInProgress = errors.New("poll tick already in progress")

	// ErrNilPublisher indicates New was called without a publisher.
	ErrNilPublisher = errors.New("publisher is required")

	// ErrNilSource indicates New was called without an observer source.
	ErrNilSource = errors.New("observer source is required")
)

// TickError describes why a poll tick was abandoned.
type TickError struct {
	// Op is the tick stage that failed ("observe" or "evaluate").
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TickError) Error() string {
	return fmt.Sprintf("poll tick %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TickError) Unwrap() error {
	return e.Err
}
