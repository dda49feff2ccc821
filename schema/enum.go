// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/wireproto/protocore/internal/werrors"

// Enum is a name plus a mapping from symbolic name to 32-bit integer.
// Integer values may alias (collide); names must be unique.
type Enum struct {
	base
	order  []string
	values map[string]int32
}

// NewEnum constructs a detached Enum. Use Type.AddEnum to attach it.
func NewEnum(name string, options map[string]interface{}) *Enum {
	return &Enum{base: newBase(name, options), values: map[string]int32{}}
}

// AddValue adds a symbolic name to this enum. It returns a
// DuplicateNameError if the name is already present.
func (e *Enum) AddValue(name string, number int32) error {
	if _, exists := e.values[name]; exists {
		return werrors.NewDuplicateName("enum %s: value %q already declared", e.name, name)
	}
	e.order = append(e.order, name)
	e.values[name] = number
	return nil
}

// Values returns the declared value names in declaration order.
func (e *Enum) Values() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// NumberOf returns the integer for a declared value name.
func (e *Enum) NumberOf(name string) (int32, bool) {
	v, ok := e.values[name]
	return v, ok
}

// FirstValue returns the number of the first declared enum value, used as
// the default value for an enum-typed field. It panics if the enum
// declares no values, which a well-formed schema never does for an enum
// referenced by a field.
func (e *Enum) FirstValue() int32 {
	if len(e.order) == 0 {
		panic("schema: enum " + e.name + " has no declared values")
	}
	return e.values[e.order[0]]
}

func (e *Enum) onAdd(parent Namespace) error { return nil }
func (e *Enum) onRemove(parent Namespace)    {}

var _ Object = (*Enum)(nil)
