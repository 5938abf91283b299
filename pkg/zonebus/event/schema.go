package event

import (
	"fmt"
	"sort"
	"sync"
)

// Schema declares which payload kind an event type carries.
type Schema struct {
	// Type is the event type name.
	Type string

	// Kind is the accepted payload kind. Empty accepts any payload.
	Kind PayloadKind

	// Description explains the event's purpose.
	Description string
}

// SchemaRegistry maps event types to their schemas. Event types without a
// schema accept any payload.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewSchemaRegistry creates an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		schemas: make(map[string]Schema),
	}
}

// DefaultSchemas returns a registry holding the built-in zone event types.
func DefaultSchemas() *SchemaRegistry {
	r := NewSchemaRegistry()
	r.MustRegister(Schema{
		Type:        TypeZoneEnter,
		Kind:        KindZone,
		Description: "Observer ray started intersecting a tracked zone",
	})
	r.MustRegister(Schema{
		Type:        TypeZoneLeave,
		Kind:        KindZone,
		Description: "Observer ray stopped intersecting a tracked zone",
	})
	return r
}

// Register adds or replaces the schema for s.Type.
func (r *SchemaRegistry) Register(s Schema) error {
	if isBlank(s.Type) {
		return ErrEmptyType
	}
	switch s.Kind {
	case "", KindZone, KindOpaque:
	default:
		return fmt.Errorf("unknown payload kind %q", s.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Type] = s
	return nil
}

// MustRegister is Register that panics on error.
func (r *SchemaRegistry) MustRegister(s Schema) {
	if err := r.Register(s); err != nil {
		panic(fmt.Sprintf("failed to register event schema: %v", err))
	}
}

// Get returns the schema for eventType.
func (r *SchemaRegistry) Get(eventType string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[eventType]
	return s, ok
}

// Types returns all registered event types in sorted order.
func (r *SchemaRegistry) Types() []string {
	r.mu.RLock()
	types := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	r.mu.RUnlock()

	sort.Strings(types)
	return types
}

// Check validates payload against the schema for eventType.
func (r *SchemaRegistry) Check(eventType string, payload Payload) error {
	s, ok := r.Get(eventType)
	if !ok || s.Kind == "" {
		return nil
	}
	if isNilPayload(payload) || payload.PayloadKind() != s.Kind {
		var got PayloadKind
		if !isNilPayload(payload) {
			got = payload.PayloadKind()
		}
		return fmt.Errorf("%w: %s expects %s, got %q", ErrPayloadMismatch, eventType, s.Kind, got)
	}
	return nil
}
