// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/wireproto/protocore/internal/pragma"

// Root is the top-level namespace a schema document's top-level message
// types and enums are declared within. It is never itself attached to
// anything; Parent always returns nil.
type Root struct {
	core namespaceCore
}

// NewRoot constructs an empty root namespace.
func NewRoot() *Root { return &Root{} }

func (r *Root) Name() string                         { return "" }
func (r *Root) Options() map[string]interface{}      { return map[string]interface{}{} }
func (r *Root) Parent() Namespace                     { return nil }
func (r *Root) setParent(Namespace)                   { panic("schema: Root cannot be attached to a parent namespace") }
func (r *Root) onAdd(Namespace) error                 { panic("schema: Root cannot be attached to a parent namespace") }
func (r *Root) onRemove(Namespace)                    {}
func (r *Root) SchemaInternal(pragma.DoNotImplement) {}

// Add attaches a top-level Type or Enum to the root namespace.
func (r *Root) Add(child Object) error { return r.core.add(r, child, "root") }

// Remove detaches a top-level child from the root namespace.
func (r *Root) Remove(child Object) error { return r.core.remove(r, child, "root") }

// Get returns the direct top-level child named name, or nil.
func (r *Root) Get(name string) Object { return r.core.get(name) }

// Lookup resolves a dotted path against the root namespace. Since Root has
// no parent, this is equivalent to a single downward walk.
func (r *Root) Lookup(path string) Object { return lookup(r, path) }

// Types returns the top-level message types, in declaration order.
func (r *Root) Types() []*Type {
	var out []*Type
	for _, o := range r.core.children() {
		if t, ok := o.(*Type); ok {
			out = append(out, t)
		}
	}
	return out
}

// Enums returns the top-level enums, in declaration order.
func (r *Root) Enums() []*Enum {
	var out []*Enum
	for _, o := range r.core.children() {
		if e, ok := o.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Seal resolves every field transitively reachable from the root.
func (r *Root) Seal() []error {
	var errs []error
	for _, t := range r.Types() {
		errs = append(errs, t.Seal()...)
	}
	return errs
}

var _ Namespace = (*Root)(nil)
