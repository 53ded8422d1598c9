// Package scene defines the renderer-agnostic scene graph produced by the
// compiler: ordered dictionaries of plugin nodes, loaded object handles and
// typed leaf values.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/core/base/ordmap"
)

// The key holding a node's plugin type.
const TypeKey = "type"

// Dict is an ordered dictionary describing a scene graph node. Insertion
// order is preserved so that serialized output and sensor indices are
// deterministic.
type Dict struct {
	entries ordmap.Map[string, any]
}

// New creates a node of the given plugin type.
func New(typeName string) *Dict {
	d := &Dict{}
	if typeName != "" {
		d.Set(TypeKey, typeName)
	}
	return d
}

// NewRef creates a reference node pointing to a top-level entry by id.
func NewRef(id string) *Dict {
	return New("ref").Set("id", id)
}

// Set adds or replaces an entry. Replaced entries keep their position.
func (d *Dict) Set(key string, val any) *Dict {
	d.entries.Add(key, val)
	return d
}

// Get looks up an entry.
func (d *Dict) Get(key string) (any, bool) {
	return d.entries.ValueByKeyTry(key)
}

// Has returns true if the key is present.
func (d *Dict) Has(key string) bool {
	_, found := d.entries.ValueByKeyTry(key)
	return found
}

// Type returns the plugin type of this node or an empty string.
func (d *Dict) Type() string {
	v, _ := d.Get(TypeKey)
	s, _ := v.(string)
	return s
}

// Len returns the number of entries including the type entry.
func (d *Dict) Len() int {
	return d.entries.Len()
}

// Keys returns the entry keys in insertion order.
func (d *Dict) Keys() []string {
	return d.entries.Keys()
}

// Each invokes fn for every entry in insertion order. Iteration stops
// when fn returns an error.
func (d *Dict) Each(fn func(key string, val any) error) error {
	for _, kv := range d.entries.Order {
		if err := fn(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a shallow copy. Nested nodes and handles are shared.
func (d *Dict) Clone() *Dict {
	return &Dict{entries: *ordmap.Make(slices.Clone(d.entries.Order))}
}

// Update copies all entries of other into this node.
func (d *Dict) Update(other *Dict) *Dict {
	for _, kv := range other.entries.Order {
		d.entries.Add(kv.Key, kv.Value)
	}
	return d
}

// CountPrefix counts the keys starting with prefix.
func (d *Dict) CountPrefix(prefix string) int {
	var count int
	for _, kv := range d.entries.Order {
		if strings.HasPrefix(kv.Key, prefix) {
			count++
		}
	}
	return count
}

// MarshalJSON encodes the node as a JSON object preserving key order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range d.entries.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("scene: could not encode %q: %w", kv.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Dict) String() string {
	return fmt.Sprintf("Dict(%s, %d entries)", d.Type(), d.Len())
}
