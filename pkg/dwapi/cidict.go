package dwapi

import (
	"fmt"
	"strings"
)

// Pair is a single key/value entry of a CIDict, carrying the key in its
// original casing.
type Pair[V any] struct {
	Key   string
	Value V
}

// CIDict is an ordered mapping whose keys are compared case-insensitively.
//
// The DocuWare platform is inconsistent about the casing of JSON member names,
// link relations, and header parameters, so every table derived from an HTTP
// response is kept in one of these. Exactly one entry exists per case-folded
// key. Iteration order is the insertion order of the first write to a
// normalized key, and a later write with different casing keeps the casing of
// the first write; delete and reinsert to change it.
//
// The zero value is not usable; construct with NewCIDict, CIDictFromMap or
// CIDictFromPairs.
type CIDict[V any] struct {
	order []string
	items map[string]Pair[V]
}

func foldKey(key string) string {
	return strings.ToLower(key)
}

// NewCIDict returns an empty dictionary.
func NewCIDict[V any]() *CIDict[V] {
	return &CIDict[V]{items: make(map[string]Pair[V])}
}

// CIDictFromPairs builds a dictionary from key/value pairs in order, with
// last-write-wins semantics for keys that fold to the same value.
func CIDictFromPairs[V any](pairs []Pair[V]) *CIDict[V] {
	d := NewCIDict[V]()
	for _, p := range pairs {
		d.Set(p.Key, p.Value)
	}

	return d
}

// CIDictFromMap builds a dictionary from a plain map. Iteration order of Go
// maps is unspecified, so the resulting entry order is too; prefer
// CIDictFromPairs when order matters.
func CIDictFromMap[V any](m map[string]V) *CIDict[V] {
	d := NewCIDict[V]()
	for k, v := range m {
		d.Set(k, v)
	}

	return d
}

// Set stores value under key. If an entry already exists for the case-folded
// key, the value is replaced and the originally stored casing is kept.
func (d *CIDict[V]) Set(key string, value V) {
	folded := foldKey(key)

	if existing, ok := d.items[folded]; ok {
		d.items[folded] = Pair[V]{Key: existing.Key, Value: value}

		return
	}

	d.order = append(d.order, folded)
	d.items[folded] = Pair[V]{Key: key, Value: value}
}

// Get returns the value stored under key, compared case-insensitively.
func (d *CIDict[V]) Get(key string) (V, bool) {
	p, ok := d.items[foldKey(key)]

	return p.Value, ok
}

// GetOr returns the value stored under key, or fallback when absent.
func (d *CIDict[V]) GetOr(key string, fallback V) V {
	if v, ok := d.Get(key); ok {
		return v
	}

	return fallback
}

// Contains reports whether an entry exists for key.
func (d *CIDict[V]) Contains(key string) bool {
	_, ok := d.items[foldKey(key)]

	return ok
}

// Delete removes the entry for key, if any.
func (d *CIDict[V]) Delete(key string) {
	folded := foldKey(key)
	if _, ok := d.items[folded]; !ok {
		return
	}

	delete(d.items, folded)

	for i, k := range d.order {
		if k == folded {
			d.order = append(d.order[:i], d.order[i+1:]...)

			break
		}
	}
}

// Len counts entries by normalized key, not raw insertions.
func (d *CIDict[V]) Len() int {
	return len(d.items)
}

// Keys returns the original-cased keys in insertion order.
func (d *CIDict[V]) Keys() []string {
	keys := make([]string, 0, len(d.order))
	for _, folded := range d.order {
		keys = append(keys, d.items[folded].Key)
	}

	return keys
}

// Values returns the values in insertion order.
func (d *CIDict[V]) Values() []V {
	values := make([]V, 0, len(d.order))
	for _, folded := range d.order {
		values = append(values, d.items[folded].Value)
	}

	return values
}

// Items returns the entries in insertion order with original-cased keys. This
// is also the "plain ordered mapping" view: a native Go map cannot preserve
// order, so callers wanting one get a pair slice instead.
func (d *CIDict[V]) Items() []Pair[V] {
	items := make([]Pair[V], 0, len(d.order))
	for _, folded := range d.order {
		items = append(items, d.items[folded])
	}

	return items
}

// Copy returns a shallow copy preserving order and original casing.
func (d *CIDict[V]) Copy() *CIDict[V] {
	dup := &CIDict[V]{
		order: append([]string(nil), d.order...),
		items: make(map[string]Pair[V], len(d.items)),
	}
	for k, v := range d.items {
		dup.items[k] = v
	}

	return dup
}

// Equal reports whether both dictionaries hold the same case-folded keys with
// equal values. Original casing and insertion order do not participate.
func Equal[V comparable](a, b *CIDict[V]) bool {
	if a.Len() != b.Len() {
		return false
	}

	for folded, p := range a.items {
		other, ok := b.items[folded]
		if !ok || other.Value != p.Value {
			return false
		}
	}

	return true
}

func (d *CIDict[V]) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	for i, p := range d.Items() {
		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%q: %v", p.Key, p.Value)
	}

	sb.WriteByte('}')

	return sb.String()
}
