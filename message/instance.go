// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package message implements a fixed-shape runtime record: for a resolved
// schema.Type, a value that exposes a getter and setter per field honoring
// oneof exclusivity and default-value elision.
//
// It plays the role types/dynamicpb.Message plays for
// google.golang.org/protobuf: a reflection-driven stand-in for a generated
// struct, addressed by field name rather than by a generated Go field.
package message

import (
	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/schema"
	"github.com/wireproto/protocore/wireformat"
)

// Instance is a dynamically-typed message value for a resolved schema.Type.
// The zero value is not usable; construct one with New.
//
// Operations on an Instance are not safe for concurrent use, matching
// dynamicpb.Message's contract.
type Instance struct {
	typ    *schema.Type
	values map[string]interface{}
}

// New returns an empty Instance for t. t must already be sealed (every
// field resolved) or Get/Mutable will panic when they consult Field.Kind.
func New(t *schema.Type) *Instance {
	return &Instance{typ: t, values: make(map[string]interface{})}
}

// Type returns the schema.Type this Instance was built from.
func (m *Instance) Type() *schema.Type { return m.typ }

func (m *Instance) field(name string) (*schema.Field, error) {
	obj := m.typ.Get(name)
	f, ok := obj.(*schema.Field)
	if !ok {
		return nil, werrors.NewNotFound("message %s: no field named %q", m.typ.Name(), name)
	}
	return f, nil
}

// Has reports whether name is explicitly populated, irrespective of
// whether a stored value happens to equal the field's default. This
// distinguishes "absent" from "present but default" for message-kind
// fields and for WhichOneof; scalar callers wanting the encoder's emit
// decision should use schema.Field.IsDefaultScalar on the value from Get
// instead.
func (m *Instance) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Get returns the current value of field name. If the field has never been
// set (and is not a repeated/map field, which always read back as an empty,
// non-nil container), Get returns the field's default: the resolved zero
// scalar or enum value, or nil for an unset singular message field. A
// message-kind field has no meaningful default to manufacture, matching
// dynamicpb's convention that an absent message field reads back as
// invalid/nil rather than a freshly allocated zero message.
func (m *Instance) Get(name string) (interface{}, error) {
	f, err := m.field(name)
	if err != nil {
		return nil, err
	}
	if f.IsMap() {
		if v, ok := m.values[name]; ok {
			return v.(*Map), nil
		}
		return NewMap(), nil
	}
	if f.IsRepeated() {
		if v, ok := m.values[name]; ok {
			return v.(*List), nil
		}
		return NewList(), nil
	}
	if v, ok := m.values[name]; ok {
		return v, nil
	}
	if f.Kind() == wireformat.KindMessage {
		return nil, nil
	}
	return f.ZeroScalar(), nil
}

// Set implements the field setter decision table. Passing v ==
// nil clears the field (the "unset" case) without disturbing
// any oneof sibling. Passing a non-nil v stores it and, if the field
// belongs to a OneOf, first clears every sibling field's stored value
// (the exclusivity row): the OneOf's currently-set member is derived
// entirely from which sibling's entry is present in m.values, so there is
// no separate "which is set" bit to keep in sync.
func (m *Instance) Set(name string, v interface{}) error {
	f, err := m.field(name)
	if err != nil {
		return err
	}
	if v == nil {
		delete(m.values, name)
		return nil
	}
	if f.PartOf() != nil {
		for _, sibling := range f.PartOf().Fields() {
			if sibling != f {
				delete(m.values, sibling.Name())
			}
		}
	}
	m.values[name] = v
	return nil
}

// Clear is equivalent to Set(name, nil).
func (m *Instance) Clear(name string) error { return m.Set(name, nil) }

// Mutable returns the list, map, or nested message stored under name,
// creating and storing an empty one first if the field is unset. It
// returns a TypeError for a scalar-kind field, which has no mutable
// representation: use Set instead.
func (m *Instance) Mutable(name string) (interface{}, error) {
	f, err := m.field(name)
	if err != nil {
		return nil, err
	}
	if f.IsMap() {
		if v, ok := m.values[name]; ok {
			return v.(*Map), nil
		}
		nm := NewMap()
		m.values[name] = nm
		return nm, nil
	}
	if f.IsRepeated() {
		if v, ok := m.values[name]; ok {
			return v.(*List), nil
		}
		nl := NewList()
		m.values[name] = nl
		return nl, nil
	}
	if f.Kind() != wireformat.KindMessage {
		return nil, werrors.NewType("field %s: not a composite (list, map, or message) field", name)
	}
	if v, ok := m.values[name]; ok {
		return v.(*Instance), nil
	}
	nested, ok := f.ResolvedType().(*schema.Type)
	if !ok {
		return nil, werrors.NewType("field %s: resolved message type is unavailable", name)
	}
	child := New(nested)
	if err := m.Set(name, child); err != nil {
		return nil, err
	}
	return child, nil
}

// WhichOneof reports the name of the field currently populated within the
// oneof named oneofName, and whether any member is populated at all.
func (m *Instance) WhichOneof(oneofName string) (string, bool) {
	obj := m.typ.Get(oneofName)
	oo, ok := obj.(*schema.OneOf)
	if !ok {
		return "", false
	}
	for _, f := range oo.Fields() {
		if m.Has(f.Name()) {
			return f.Name(), true
		}
	}
	return "", false
}
