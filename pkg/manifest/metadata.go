// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
)

type (
	// Pair is a single metadata entry.
	Pair struct {
		Key   string
		Value string
	}

	// Metadata is an insertion-ordered string mapping decoded from a manifest
	// block. The zero value is an empty mapping. Metadata is immutable once
	// returned from this package.
	Metadata struct {
		keys   []string
		values map[string]string
	}
)

// FromPairs builds Metadata from pairs in order. A repeated key keeps its first
// position and takes the last value.
func FromPairs(pairs ...Pair) Metadata {
	var m Metadata
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}
	return m
}

func (m *Metadata) set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value stored under key, or fallback when the key is absent.
func (m Metadata) Value(key, fallback string) string {
	if v, ok := m.values[key]; ok {
		return v
	}
	return fallback
}

// Len returns the number of entries.
func (m Metadata) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m Metadata) Keys() []string { return slices.Clone(m.keys) }

// All iterates entries in insertion order.
func (m Metadata) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Pairs returns the entries in insertion order.
func (m Metadata) Pairs() []Pair {
	pairs := make([]Pair, 0, len(m.keys))
	for k, v := range m.All() {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs
}

// Equal reports whether both mappings hold the same entries in the same order.
func (m Metadata) Equal(other Metadata) bool {
	if !slices.Equal(m.keys, other.keys) {
		return false
	}
	for _, k := range m.keys {
		if m.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as a JSON object preserving key order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
