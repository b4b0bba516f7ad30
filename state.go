package robotick

import (
	"sort"
	"sync"
)

// StateContainer is the per-workload dual map of readable and writable
// fields described in spec.md §3/§4.2, adapted from the teacher's
// resourceMap (resource_container.go): one mutex guards both maps, and the
// lock is held only for the duration of the map access — never across user
// code (spec.md §3 invariant).
type StateContainer struct {
	mu       sync.Mutex
	readable map[string]Value
	writable map[string]Value
}

// NewStateContainer constructs an empty container.
func NewStateContainer() *StateContainer {
	return &StateContainer{
		readable: make(map[string]Value),
		writable: make(map[string]Value),
	}
}

// DeclareReadable registers a readable (output) field with its initial
// value. Declaring a name already present in either map is a no-op on the
// writable side and overwrite on the readable side — callers are expected
// to declare each field exactly once, per the disjoint-namespace invariant.
func (c *StateContainer) DeclareReadable(field string, initial Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readable[field] = initial
}

// DeclareWritable registers a writable (input) field with its initial
// value.
func (c *StateContainer) DeclareWritable(field string, initial Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writable[field] = initial
}

// Get returns the field's current value: writable takes precedence over
// readable (spec.md §4.2), and ok is false if the field is in neither map.
func (c *StateContainer) Get(field string) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.writable[field]; ok {
		return v, true
	}
	if v, ok := c.readable[field]; ok {
		return v, true
	}
	return Nil, false
}

// Set writes into the writable map if field is declared there, else into
// the readable map if declared there, else returns ErrUnknownField.
func (c *StateContainer) Set(field string, value Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.writable[field]; ok {
		c.writable[field] = value
		return nil
	}
	if _, ok := c.readable[field]; ok {
		c.readable[field] = value
		return nil
	}
	return ErrUnknownField
}

// ReadableFields returns the declared readable field names, sorted.
func (c *StateContainer) ReadableFields() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.readable)
}

// WritableFields returns the declared writable field names, sorted.
func (c *StateContainer) WritableFields() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.writable)
}

// Snapshot returns a copy of every declared field (readable ∪ writable) for
// telemetry publication.
func (c *StateContainer) Snapshot() map[string]Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Value, len(c.readable)+len(c.writable))
	for k, v := range c.readable {
		out[k] = v
	}
	for k, v := range c.writable {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]Value) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
