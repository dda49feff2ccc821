// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/wireproto/protocore/internal/werrors"

// Type is a message type: a namespace containing fields, nested types,
// enums, and oneofs. It owns its children exclusively; detaching a child
// nulls its parent.
type Type struct {
	base
	core namespaceCore
}

// NewType constructs a detached message Type.
func NewType(name string, options map[string]interface{}) *Type {
	return &Type{base: newBase(name, options)}
}

// Add attaches child to this Type (the generic namespace add, specialized
// here to additionally enforce field id uniqueness: an id must be unique
// per enclosing message across ALL fields, including those reached via
// oneofs, which this check covers since oneof-member fields are promoted
// into t via the same Add call).
func (t *Type) Add(child Object) error {
	if f, ok := child.(*Field); ok {
		for _, existing := range t.FieldsArray() {
			if existing != f && existing.ID() == f.id {
				return werrors.NewDuplicateName("message %s: field id %d already used by %q", t.name, f.id, existing.Name())
			}
		}
	}
	return t.core.add(t, child, "message "+t.name)
}

// AddField is a typed convenience wrapper around Add.
func (t *Type) AddField(f *Field) error { return t.Add(f) }

// AddOneof is a typed convenience wrapper around Add.
func (t *Type) AddOneof(o *OneOf) error { return t.Add(o) }

// AddEnum is a typed convenience wrapper around Add.
func (t *Type) AddEnum(e *Enum) error { return t.Add(e) }

// AddNested is a typed convenience wrapper around Add for nested message
// types.
func (t *Type) AddNested(nested *Type) error { return t.Add(nested) }

// Remove detaches child from this Type.
func (t *Type) Remove(child Object) error { return t.core.remove(t, child, "message "+t.name) }

// Get returns the direct child named name, or nil.
func (t *Type) Get(name string) Object { return t.core.get(name) }

// Lookup walks a dotted path from this Type upward through its ancestors.
func (t *Type) Lookup(path string) Object { return lookup(t, path) }

func (t *Type) onAdd(parent Namespace) error { return nil }
func (t *Type) onRemove(parent Namespace)    {}

var _ Namespace = (*Type)(nil)

// FieldsArray returns the fields directly owned by this Type, in
// declaration order. Fields promoted from an attached OneOf are included,
// since promotion makes them first-class children via Add.
func (t *Type) FieldsArray() []*Field {
	var out []*Field
	for _, o := range t.core.children() {
		if f, ok := o.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// OneofsArray returns the oneofs directly owned by this Type, in
// declaration order.
func (t *Type) OneofsArray() []*OneOf {
	var out []*OneOf
	for _, o := range t.core.children() {
		if x, ok := o.(*OneOf); ok {
			out = append(out, x)
		}
	}
	return out
}

// NestedTypes returns the message types nested directly within this Type,
// in declaration order.
func (t *Type) NestedTypes() []*Type {
	var out []*Type
	for _, o := range t.core.children() {
		if x, ok := o.(*Type); ok {
			out = append(out, x)
		}
	}
	return out
}

// Enums returns the enums declared directly within this Type, in
// declaration order.
func (t *Type) Enums() []*Enum {
	var out []*Enum
	for _, o := range t.core.children() {
		if x, ok := o.(*Enum); ok {
			out = append(out, x)
		}
	}
	return out
}

// FieldByNumber returns the field with the given wire tag number, or nil.
func (t *Type) FieldByNumber(id int32) *Field {
	for _, f := range t.FieldsArray() {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// Seal resolves every field of this Type and of every nested Type,
// recursively. It does not abort at the first ResolveError: one field's
// failure to resolve leaves the Type otherwise usable, with every other
// field still resolved. The returned slice is empty if every field
// resolved successfully.
func (t *Type) Seal() []error {
	var errs []error
	for _, f := range t.FieldsArray() {
		if err := f.Resolve(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, nested := range t.NestedTypes() {
		errs = append(errs, nested.Seal()...)
	}
	return errs
}
