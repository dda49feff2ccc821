// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package specialize implements a specialized encoding facility: an
// encoder built once per schema.Type instead of re-dispatching on field
// kind/cardinality on every Marshal call.
//
// Real runtime bytecode generation, the way internal/impl builds a
// MessageInfo, is not an idiomatic Go technique (no eval, no
// runtime function synthesis outside the assembler). This package gets the
// same compile-once-dispatch-many property by building a per-field closure
// table once, at Plan-build time, and invoking it without any further
// switch on field kind, the same way internal/impl itself falls back to
// coderFieldInfo.funcs (selected once in fieldCoder) when it cannot use
// the even-faster unsafe-pointer struct path. A Plan must produce output
// byte-identical to encode.Options.Marshal on the same Instance;
// plan_test.go encodes the same fixture with both encoders to enforce
// this.
package specialize

import (
	"sort"
	"sync"

	"github.com/wireproto/protocore/encode"
	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/message"
	"github.com/wireproto/protocore/schema"
	"github.com/wireproto/protocore/wireformat"
)

// Cache memoizes one Plan per schema.Type, so a message type referenced by
// several fields (including self-referential, recursive types) is only
// compiled once. The zero value is not usable; use NewCache.
type Cache struct {
	mu    sync.Mutex
	plans map[*schema.Type]*Plan
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{plans: make(map[*schema.Type]*Plan)}
}

// Plan returns the (possibly newly built) Plan for t, memoized in c. t must
// already be sealed.
func (c *Cache) Plan(t *schema.Type) (*Plan, error) {
	c.mu.Lock()
	if p, ok := c.plans[t]; ok {
		c.mu.Unlock()
		return p, nil
	}
	p := &Plan{t: t, cache: c}
	// Register before building: a field whose type resolves back to t
	// (directly, or through a cycle of nested types) must observe this
	// same *Plan rather than recursing into Build again. Its slots are
	// only safe to read once the top-level Plan call that triggered this
	// build has returned, which holds for every caller in this package.
	c.plans[t] = p
	c.mu.Unlock()

	if err := p.build(); err != nil {
		return nil, err
	}
	return p, nil
}

// Build is a convenience for the common case of compiling a single,
// self-contained Type with a fresh Cache.
func Build(t *schema.Type) (*Plan, error) {
	return NewCache().Plan(t)
}

// Plan is the compiled, per-Type encoder: one emit closure per field,
// selected once by kind/cardinality/map-ness at build time.
type Plan struct {
	t     *schema.Type
	cache *Cache

	order       []fieldPlan // declaration order
	sortedOrder []fieldPlan // field-id order, precomputed for Deterministic
}

type fieldPlan struct {
	field    *schema.Field
	required bool
	emit     func(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error
}

func (p *Plan) build() error {
	fields := p.t.FieldsArray()
	p.order = make([]fieldPlan, len(fields))
	for i, f := range fields {
		fp, err := p.compileField(f)
		if err != nil {
			return err
		}
		p.order[i] = fp
	}
	p.sortedOrder = append([]fieldPlan(nil), p.order...)
	sort.Slice(p.sortedOrder, func(i, j int) bool {
		return p.sortedOrder[i].field.ID() < p.sortedOrder[j].field.ID()
	})
	return nil
}

func (p *Plan) compileField(f *schema.Field) (fieldPlan, error) {
	fp := fieldPlan{field: f, required: f.IsRequired()}
	switch {
	case f.IsMap():
		fp.emit = p.compileMap(f)
	case f.IsRepeated():
		fp.emit = p.compileRepeated(f)
	default:
		fp.emit = p.compileSingular(f)
	}
	return fp, nil
}

func (p *Plan) compileSingular(f *schema.Field) func(*wireformat.Writer, *message.Instance, encode.Options) error {
	name := f.Name()
	id := f.ID()
	kind := f.Kind()

	if kind == wireformat.KindMessage {
		return func(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error {
			v, err := inst.Get(name)
			if err != nil {
				return err
			}
			if v == nil {
				return nil
			}
			nestedPlan, err := p.cache.Plan(v.(*message.Instance).Type())
			if err != nil {
				return err
			}
			w.Tag(id, wireformat.Bytes)
			w.Fork()
			if err := nestedPlan.marshalInto(w, v.(*message.Instance), opts); err != nil {
				return err
			}
			w.Ldelim()
			return nil
		}
	}

	wt := wireformat.BasicWireType(kind)
	return func(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error {
		v, err := inst.Get(name)
		if err != nil {
			return err
		}
		if !f.IsRequired() && f.IsDefaultScalar(v) {
			return nil
		}
		w.Tag(id, wt)
		encode.WriteScalar(w, kind, v)
		return nil
	}
}

func (p *Plan) compileRepeated(f *schema.Field) func(*wireformat.Writer, *message.Instance, encode.Options) error {
	name := f.Name()
	id := f.ID()
	kind := f.Kind()
	packed := f.Packed()
	wt := wireformat.BasicWireType(kind)

	return func(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error {
		v, err := inst.Get(name)
		if err != nil {
			return err
		}
		list := v.(*message.List)
		if list.Len() == 0 {
			return nil
		}
		if packed {
			w.Tag(id, wireformat.Bytes)
			w.Fork()
			for i := 0; i < list.Len(); i++ {
				encode.WriteScalar(w, kind, list.Get(i))
			}
			w.Ldelim()
			return nil
		}
		for i := 0; i < list.Len(); i++ {
			elem := list.Get(i)
			if kind == wireformat.KindMessage {
				nestedPlan, err := p.cache.Plan(elem.(*message.Instance).Type())
				if err != nil {
					return err
				}
				w.Tag(id, wireformat.Bytes)
				w.Fork()
				if err := nestedPlan.marshalInto(w, elem.(*message.Instance), opts); err != nil {
					return err
				}
				w.Ldelim()
				continue
			}
			w.Tag(id, wt)
			encode.WriteScalar(w, kind, elem)
		}
		return nil
	}
}

func (p *Plan) compileMap(f *schema.Field) func(*wireformat.Writer, *message.Instance, encode.Options) error {
	name := f.Name()
	id := f.ID()
	keyKind := f.KeyKind()
	valKind := f.Kind()
	keyWT := wireformat.BasicWireType(keyKind)
	valWT := wireformat.BasicWireType(valKind)

	return func(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error {
		v, err := inst.Get(name)
		if err != nil {
			return err
		}
		m := v.(*message.Map)
		if m.Len() == 0 {
			return nil
		}
		keys := m.Keys()
		if opts.Deterministic {
			sortMapKeysByKind(keys, keyKind)
		}
		for _, k := range keys {
			val, _ := m.Get(k)
			w.Tag(id, wireformat.Bytes)
			w.Fork()
			w.Tag(encode.MapEntryKeyID, keyWT)
			encode.WriteScalar(w, keyKind, k)
			if valKind == wireformat.KindMessage {
				nestedPlan, err := p.cache.Plan(val.(*message.Instance).Type())
				if err != nil {
					return err
				}
				w.Tag(encode.MapEntryValueID, wireformat.Bytes)
				w.Fork()
				if err := nestedPlan.marshalInto(w, val.(*message.Instance), opts); err != nil {
					return err
				}
				w.Ldelim()
			} else {
				w.Tag(encode.MapEntryValueID, valWT)
				encode.WriteScalar(w, valKind, val)
			}
			w.Ldelim()
		}
		return nil
	}
}

func sortMapKeysByKind(keys []interface{}, kind wireformat.Kind) {
	less := func(i, j int) bool { return false }
	switch kind {
	case wireformat.KindString:
		less = func(i, j int) bool { return keys[i].(string) < keys[j].(string) }
	case wireformat.KindBool:
		less = func(i, j int) bool { return !keys[i].(bool) && keys[j].(bool) }
	case wireformat.KindInt32, wireformat.KindSint32, wireformat.KindSfixed32:
		less = func(i, j int) bool { return keys[i].(int32) < keys[j].(int32) }
	case wireformat.KindInt64, wireformat.KindSint64, wireformat.KindSfixed64:
		less = func(i, j int) bool { return keys[i].(int64) < keys[j].(int64) }
	case wireformat.KindUint32, wireformat.KindFixed32:
		less = func(i, j int) bool { return keys[i].(uint32) < keys[j].(uint32) }
	case wireformat.KindUint64, wireformat.KindFixed64:
		less = func(i, j int) bool { return keys[i].(uint64) < keys[j].(uint64) }
	}
	sort.Slice(keys, less)
}

// Marshal runs the compiled plan against inst, which must be an Instance of
// the same Type the Plan was built from.
func (p *Plan) Marshal(inst *message.Instance, opts encode.Options) ([]byte, error) {
	if inst.Type() != p.t {
		return nil, werrors.NewType("specialize: plan built for %s, got instance of %s", p.t.Name(), inst.Type().Name())
	}
	w := wireformat.NewWriter()
	if err := p.marshalInto(w, inst, opts); err != nil {
		return nil, err
	}
	if w.OpenForks() != 0 {
		panic("specialize: unbalanced fork/ldelim")
	}
	return w.Finish(), nil
}

func (p *Plan) marshalInto(w *wireformat.Writer, inst *message.Instance, opts encode.Options) error {
	order := p.order
	if opts.Deterministic {
		order = p.sortedOrder
	}
	for _, fp := range order {
		if fp.required && !inst.Has(fp.field.Name()) {
			if opts.AllowPartial {
				continue
			}
			return werrors.NewEncode("message %s: required field %q is not set", p.t.Name(), fp.field.Name())
		}
		if err := fp.emit(w, inst, opts); err != nil {
			return err
		}
	}
	return nil
}
