package primitives

import "sync"

// Attributes is the opaque key-value bag carried by a state. The engine never reads
// it; handlers and selectors may. Backed by sync.Map so handlers running on other
// goroutines can touch it safely.
type Attributes struct {
	data sync.Map
}

// NewAttributes creates an empty bag.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Get retrieves a value by key.
func (a *Attributes) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.data.Load(key)
}

// Set stores a value by key. The zero Attributes is ready to use; a nil bag has
// nowhere to store and panics.
func (a *Attributes) Set(key string, val any) {
	a.data.Store(key, val)
}

// Delete removes a key. Deleting from a nil bag is a no-op.
func (a *Attributes) Delete(key string) {
	if a == nil {
		return
	}
	a.data.Delete(key)
}

// Len returns the number of stored keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	n := 0
	a.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Snapshot returns a plain copy of the bag.
func (a *Attributes) Snapshot() map[string]any {
	snap := map[string]any{}
	if a == nil {
		return snap
	}
	a.data.Range(func(k, v any) bool {
		snap[k.(string)] = v
		return true
	})
	return snap
}
