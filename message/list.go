// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

// List is the mutable container backing a repeated (non-map) field. It is
// deliberately a plain ordered slice rather than anything fancier: the
// encoder walks it in Append order, which is the only order guarantee a
// repeated field needs.
type List struct {
	items []interface{}
}

// NewList returns an empty list.
func NewList() *List { return &List{} }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at i. It panics if i is out of range.
func (l *List) Get(i int) interface{} { return l.items[i] }

// Append adds v to the end of the list.
func (l *List) Append(v interface{}) { l.items = append(l.items, v) }

// Set overwrites the element at i. It panics if i is out of range.
func (l *List) Set(i int, v interface{}) { l.items[i] = v }

// Items returns a defensive copy of the underlying elements, in order.
func (l *List) Items() []interface{} {
	out := make([]interface{}, len(l.items))
	copy(out, l.items)
	return out
}
