package event

import (
	"errors"
	"time"
)

// Result is the outcome of delivering an event to one handler.
type Result struct {
	Index    int
	Err      error
	Panicked bool
	Duration time.Duration
}

// OK reports whether the handler returned without error or panic.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report summarizes one Publish call. The zero Report means nothing was
// dispatched, either because the call was ignored or because the event type
// had no subscribers.
type Report struct {
	Event    Event
	Results  []Result
	Duration time.Duration
}

// Dispatched reports whether at least one handler was invoked.
func (r Report) Dispatched() bool {
	return len(r.Results) > 0
}

// Delivered counts handlers that completed successfully.
func (r Report) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failures returns the results of handlers that failed or panicked.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every handler failure into one error, each wrapped in a
// HandlerError. Returns nil when all handlers succeeded.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		errs = append(errs, &HandlerError{
			EventType: r.Event.Type,
			EventID:   r.Event.ID,
			Index:     res.Index,
			Err:       res.Err,
		})
	}
	return errors.Join(errs...)
}
