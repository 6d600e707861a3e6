// Package metadata implements the generation-parameter record attached to
// the terminal image-output node of a built graph.
//
// The record is an ordered key-value merge with last-write-wins semantics
// per key: keys keep their first-insertion position, values are overwritten
// by later writes. Keeping the merge explicit and ordered makes the final
// state auditable in tests and stable on the wire.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record accumulates generation parameters over the course of a build.
// The zero value is not usable; construct with New.
type Record struct {
	keys   []string
	values map[string]any
}

// New creates an empty Record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// Set writes one key. A repeated key keeps its original position but takes
// the new value.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Merge applies every key of other into r, in other's insertion order.
func (r *Record) Merge(other *Record) {
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Record) Len() int { return len(r.keys) }

// MarshalJSON encodes the record as a JSON object with keys in insertion
// order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("metadata key %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
