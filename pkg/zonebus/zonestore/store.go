// Package zonestore keeps zone definitions between runs.
package zonestore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
	"github.com/randalmurphal/zonebus/pkg/zonebus/watch"
)

// Store persists zone geometry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts or replaces the record with the same ID.
	// Returns ErrInvalidRecord if the record fails Validate.
	Put(rec Record) error

	// Get retrieves a record.
	// Returns ErrNotFound if no record has the ID.
	Get(id string) (Record, error)

	// List returns all records ordered by ID.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Record, error)

	// Delete removes a record. Returns ErrNotFound if it doesn't exist.
	Delete(id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Record is a stored zone.
type Record struct {
	ID        string     `json:"id" yaml:"id"`
	Label     string     `json:"label,omitempty" yaml:"label,omitempty"`
	Min       geom.Vec3i `json:"min" yaml:"min"`
	Max       geom.Vec3i `json:"max" yaml:"max"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a zone doesn't exist.
	ErrNotFound = errors.New("zone not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("zone store closed")

	// ErrInvalidRecord indicates a record with no ID or inverted corners.
	ErrInvalidRecord = errors.New("invalid zone record")
)

// Validate reports whether the record can be stored.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if !r.Bounds().Valid() {
		return fmt.Errorf("%w: %s: min %s exceeds max %s", ErrInvalidRecord, r.ID, r.Min, r.Max)
	}
	return nil
}

// Bounds returns the record's box.
func (r Record) Bounds() geom.AABB {
	return geom.AABB{Min: r.Min, Max: r.Max}
}

// Zone returns a watchable zone for the record.
func (r Record) Zone() *watch.StaticZone {
	return watch.NewStaticZone(r.ID, r.Bounds())
}
