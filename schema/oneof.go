// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/wireproto/protocore/internal/werrors"

// OneOf holds a group of fields of which at most one may carry a value in
// any given message instance.
//
// Field ownership is promoted lazily: a OneOf can be built in isolation
// together with its fields, then grafted into a message with a single
// Type.AddOneof call, producing the correct final shape (every owned field
// re-parented into the message while retaining its PartOf link) regardless
// of construction order.
type OneOf struct {
	base

	declared []string // field names this oneof claims, by declaration order
	fields   []*Field // fields currently associated with this oneof (owned pre-attach, promoted post-attach)
}

// NewOneOf constructs a detached OneOf.
func NewOneOf(name string, options map[string]interface{}) *OneOf {
	return &OneOf{base: newBase(name, options)}
}

// DeclaredNames returns the ordered list of field names this oneof claims,
// which may include names of fields not yet materialized as *Field values.
func (o *OneOf) DeclaredNames() []string {
	out := make([]string, len(o.declared))
	copy(out, o.declared)
	return out
}

// Fields returns the fields currently associated with this oneof, in the
// order they were added.
func (o *OneOf) Fields() []*Field {
	out := make([]*Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Add implements the generic Object-accepting form of OneOf.add, rejecting
// anything that is not a *Field with a TypeError.
func (o *OneOf) Add(obj Object) error {
	f, ok := obj.(*Field)
	if !ok {
		return werrors.NewType("oneof %s: %T is not a *schema.Field", o.name, obj)
	}
	return o.AddField(f)
}

// AddField attaches field to this oneof. If the field currently has a
// message parent, it is removed from that parent first. The field is then
// associated with this oneof (PartOf set, name recorded in the declared
// list if new). If this oneof is itself already attached to a message, the
// field is immediately promoted into that message as a first-class child.
func (o *OneOf) AddField(f *Field) error {
	if f.partOf == o {
		return nil // already a member; AddField is idempotent for its own field
	}
	if f.partOf != nil {
		return werrors.NewType("field %s: already belongs to oneof %s", f.Name(), f.partOf.Name())
	}
	if parent := f.Parent(); parent != nil {
		if err := parent.Remove(f); err != nil {
			return err
		}
	}
	f.partOf = o
	o.fields = append(o.fields, f)
	if !containsString(o.declared, f.Name()) {
		o.declared = append(o.declared, f.Name())
	}

	if msg, ok := o.Parent().(*Type); ok && msg != nil {
		if err := o.promote(msg, f); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches field from this oneof. It returns a NotFoundError if
// field is not currently associated with this oneof. If the field has a
// message parent, it is removed from that parent too, and PartOf is
// cleared.
func (o *OneOf) Remove(f *Field) error {
	idx := -1
	for i, x := range o.fields {
		if x == f {
			idx = i
			break
		}
	}
	if idx < 0 {
		return werrors.NewNotFound("oneof %s: %q is not a member", o.name, f.Name())
	}
	o.fields = append(o.fields[:idx], o.fields[idx+1:]...)
	if parent := f.Parent(); parent != nil {
		if err := parent.Remove(f); err != nil {
			return err
		}
	}
	f.partOf = nil
	return nil
}

// onAdd promotes every currently owned field that lacks a parent into the
// newly attached message, so a oneof constructed in isolation ends up fully
// wired after a single Type.AddOneof call.
func (o *OneOf) onAdd(parent Namespace) error {
	msg, ok := parent.(*Type)
	if !ok {
		return werrors.NewType("oneof %s: parent %T is not a message Type", o.name, parent)
	}
	var promoted []*Field
	for _, f := range o.fields {
		if f.Parent() == nil {
			if err := o.promote(msg, f); err != nil {
				// Undo this call's promotions so the rejected add leaves
				// msg as it was.
				for _, p := range promoted {
					_ = msg.Remove(p)
				}
				return err
			}
			promoted = append(promoted, f)
		}
	}
	return nil
}

// onRemove removes every member field from the message this oneof was
// detached from. The namespace's remove has already cleared this oneof's
// own parent by the time onRemove runs.
func (o *OneOf) onRemove(parent Namespace) {
	msg, ok := parent.(*Type)
	if !ok || msg == nil {
		return
	}
	for _, f := range o.fields {
		if f.Parent() == msg {
			_ = msg.Remove(f)
		}
	}
}

func (o *OneOf) promote(msg *Type, f *Field) error {
	// Add the field as a normal child of msg without losing its PartOf:
	// Namespace.Add would otherwise try to detach f from its current
	// parent (nil here, since the field isn't yet a child) and always
	// succeeds at setting parent; PartOf survives untouched since only
	// OneOf.Remove ever clears it.
	return msg.Add(f)
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

var _ Object = (*OneOf)(nil)
