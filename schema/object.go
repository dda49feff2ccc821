// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema implements a mutable schema graph: a namespace tree of
// reflection objects (enums, fields, oneofs, message types) with deferred
// cross-reference resolution.
//
// Unlike reflect/protoreflect descriptors, which are immutable once
// built, this graph supports add/remove in any order with onAdd/onRemove
// lifecycle hooks.
package schema

import (
	"strings"

	"github.com/wireproto/protocore/internal/pragma"
	"github.com/wireproto/protocore/internal/werrors"
)

// Object is the common interface every named schema entity implements.
// Parent back-references are weak: lookup only, never ownership.
//
// Object embeds pragma.DoNotImplement: callers outside this package work
// with Object and Namespace values returned by Type/Root/OneOf, but are not
// meant to supply their own implementations, since new methods may be
// added to either interface later.
type Object interface {
	pragma.DoNotImplement

	// Name returns the short, unqualified declaration name.
	Name() string
	// Options returns the string-to-value option mapping attached to the
	// declaration. Callers must not mutate the returned map.
	Options() map[string]interface{}
	// Parent returns the enclosing Namespace, or nil if detached.
	Parent() Namespace

	setParent(Namespace)
	onAdd(parent Namespace) error
	onRemove(parent Namespace)
}

// Namespace is a container of named Objects supporting the add/remove/get/
// lookup operations that Type and the schema root both expose.
type Namespace interface {
	Object

	// Add attaches child to this namespace. It rejects the add with a
	// DuplicateNameError if a sibling of the same name already exists;
	// otherwise it detaches child from any previous parent, sets
	// child.Parent(), and fires child.onAdd(this). The graph is left
	// unmutated if onAdd returns an error.
	Add(child Object) error
	// Remove detaches child from this namespace, clearing its parent and
	// firing child.onRemove(this). It returns a NotFoundError if child is
	// not a direct child of this namespace.
	Remove(child Object) error
	// Get returns the direct child named name, or nil if there is none.
	Get(name string) Object
	// Lookup walks a dotted path, starting at this node and proceeding to
	// ancestors, until a match is found. It returns nil if no ancestor's
	// namespace (including this one) contains the path.
	Lookup(path string) Object
}

type base struct {
	name    string
	options map[string]interface{}
	parent  Namespace
}

func newBase(name string, options map[string]interface{}) base {
	if options == nil {
		options = map[string]interface{}{}
	}
	return base{name: name, options: options}
}

func (b *base) Name() string                         { return b.name }
func (b *base) Options() map[string]interface{}      { return b.options }
func (b *base) Parent() Namespace                    { return b.parent }
func (b *base) setParent(p Namespace)                { b.parent = p }
func (b *base) SchemaInternal(pragma.DoNotImplement) {}

// reservedAccessorNames are field/oneof/type names that would collide with
// a generated accessor on message.Instance.
var reservedAccessorNames = map[string]bool{
	"Descriptor": true,
	"String":     true,
}

// namespaceCore implements the shared Add/Remove/Get/Lookup bookkeeping
// used by both Type and the Root namespace. It preserves insertion
// order, which is the contract FieldsArray/OneofsArray rely on for
// declaration-order encoding.
type namespaceCore struct {
	byName map[string]Object
	order  []Object
}

func (c *namespaceCore) init() {
	if c.byName == nil {
		c.byName = make(map[string]Object)
	}
}

func (c *namespaceCore) get(name string) Object {
	c.init()
	return c.byName[name]
}

func (c *namespaceCore) children() []Object {
	return c.order
}

// add performs the generic portion of namespace attachment: duplicate-name
// rejection, detachment from any previous parent, parent assignment, and
// firing onAdd with rollback on failure. self is the Namespace the child is
// being attached to (passed in because Go embedding can't recover the outer
// type from namespaceCore alone).
func (c *namespaceCore) add(self Namespace, child Object, selfName string) error {
	c.init()
	if reservedAccessorNames[child.Name()] {
		return werrors.NewDuplicateName("%s: name %q collides with a reserved accessor", selfName, child.Name())
	}
	if _, exists := c.byName[child.Name()]; exists {
		return werrors.NewDuplicateName("%s: a sibling named %q already exists", selfName, child.Name())
	}
	if prev := child.Parent(); prev != nil {
		if err := prev.Remove(child); err != nil {
			return err
		}
	}
	child.setParent(self)
	c.byName[child.Name()] = child
	c.order = append(c.order, child)
	if err := child.onAdd(self); err != nil {
		// Atomic per operation: roll back on a rejected add.
		// onAdd may have appended children of its own (promoted oneof
		// fields) after child, so remove child by identity.
		delete(c.byName, child.Name())
		for i, o := range c.order {
			if o == child {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		child.setParent(nil)
		return err
	}
	return nil
}

func (c *namespaceCore) remove(self Namespace, child Object, selfName string) error {
	c.init()
	if c.byName[child.Name()] != child {
		return werrors.NewNotFound("%s: %q is not a child of this namespace", selfName, child.Name())
	}
	delete(c.byName, child.Name())
	for i, o := range c.order {
		if o == child {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	child.setParent(nil)
	child.onRemove(self)
	return nil
}

// lookup walks a dotted path from self upward through ancestors.
func lookup(self Namespace, path string) Object {
	path = strings.TrimPrefix(path, ".")
	parts := strings.Split(path, ".")
	for n := Namespace(self); n != nil; {
		if found := lookupDown(n, parts); found != nil {
			return found
		}
		parent := n.Parent()
		pn, ok := parent.(Namespace)
		if !ok {
			break
		}
		n = pn
	}
	return nil
}

func lookupDown(n Namespace, parts []string) Object {
	var cur Object = n
	for _, part := range parts {
		ns, ok := cur.(Namespace)
		if !ok {
			return nil
		}
		cur = ns.Get(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}
