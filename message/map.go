// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

// Map is the mutable container backing a map field. Go's builtin map
// randomizes iteration order; a map field's wire encoding (one
// length-delimited entry submessage per pair) must be reproducible
// byte-for-byte between two encoder runs over the same Instance, so Map
// tracks insertion order explicitly instead of relying on range over a
// bare map[interface{}]interface{}.
type Map struct {
	keys []interface{}
	vals map[interface{}]interface{}
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[interface{}]interface{})}
}

func (m *Map) init() {
	if m.vals == nil {
		m.vals = make(map[interface{}]interface{})
	}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value stored under key, and whether it was present.
func (m *Map) Get(key interface{}) (interface{}, bool) {
	m.init()
	v, ok := m.vals[key]
	return v, ok
}

// Set stores value under key, appending key to the insertion order the
// first time it is used and leaving the order unchanged on overwrite.
func (m *Map) Set(key, value interface{}) {
	m.init()
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Delete removes key, if present.
func (m *Map) Delete(key interface{}) {
	m.init()
	if _, exists := m.vals[key]; !exists {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the entry keys in insertion order.
func (m *Map) Keys() []interface{} {
	out := make([]interface{}, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(key, value interface{}) bool) {
	m.init()
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}
