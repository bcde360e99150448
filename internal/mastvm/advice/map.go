package advice

import "github.com/kernelmast/mast-vm/internal/mastvm/field"

// Map is a digest-keyed table of field-element sequences. Keys are unique:
// re-inserting an existing key succeeds only if the new values are
// identical to what's already stored.
type Map struct {
	entries map[field.Digest][]field.Felt
}

// NewMap returns an empty advice map.
func NewMap() *Map {
	return &Map{entries: make(map[field.Digest][]field.Felt)}
}

// Insert records values under key, failing with ErrKeyAlreadyPresent if the
// key already maps to a different sequence. Inserting an identical
// sequence again is a no-op, not an error.
func (m *Map) Insert(key field.Digest, values []field.Felt) error {
	if existing, ok := m.entries[key]; ok {
		if !sameValues(existing, values) {
			return &ErrKeyAlreadyPresent{Key: key}
		}
		return nil
	}
	m.entries[key] = append([]field.Felt(nil), values...)
	return nil
}

// Get returns the values stored under key, if any.
func (m *Map) Get(key field.Digest) ([]field.Felt, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of distinct keys in the map.
func (m *Map) Len() int { return len(m.entries) }

func sameValues(a, b []field.Felt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
