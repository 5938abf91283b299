package event

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrUnexpectedPayload indicates a handler received a payload variant it
	// cannot process.
	ErrUnexpectedPayload = errors.New("unexpected payload")

	// ErrPayloadMismatch indicates a payload whose kind differs from the
	// registered schema for the event type.
	ErrPayloadMismatch = errors.New("payload kind does not match schema")

	// ErrEmptyType indicates a blank event type name.
	ErrEmptyType = errors.New("event type is required")
)

// HandlerError records one failed handler call within a publish.
type HandlerError struct {
	EventType string
	EventID   string
	Index     int // position in the dispatch snapshot
	Err       error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %s (%s): handler %d: %v", e.EventID, e.EventType, e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a handler.
type PanicError struct {
	Value any
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}
