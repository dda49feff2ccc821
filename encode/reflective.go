// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"sort"

	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/message"
	"github.com/wireproto/protocore/schema"
	"github.com/wireproto/protocore/wireformat"
)

// Marshal is a convenience wrapper around Options{}.Marshal.
func Marshal(inst *message.Instance) ([]byte, error) {
	return Options{}.Marshal(inst)
}

// Marshal returns the wire-format encoding of inst using the reflective
// encoder: it re-walks inst.Type().FieldsArray() on every call rather than
// consulting a precomputed plan (contrast encode/specialize.Plan).
func (o Options) Marshal(inst *message.Instance) ([]byte, error) {
	w := wireformat.NewWriter()
	if err := o.marshalMessage(w, inst); err != nil {
		return nil, err
	}
	if w.OpenForks() != 0 {
		panic("encode: unbalanced fork/ldelim")
	}
	return w.Finish(), nil
}

func (o Options) marshalMessage(w *wireformat.Writer, inst *message.Instance) error {
	fields := inst.Type().FieldsArray()
	if o.Deterministic {
		fields = append([]*schema.Field(nil), fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].ID() < fields[j].ID() })
	}
	for _, f := range fields {
		if err := o.marshalField(w, inst, f); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) marshalField(w *wireformat.Writer, inst *message.Instance, f *schema.Field) error {
	if f.IsRequired() && !inst.Has(f.Name()) {
		if o.AllowPartial {
			return nil
		}
		return werrors.NewEncode("message %s: required field %q is not set", inst.Type().Name(), f.Name())
	}

	switch {
	case f.IsMap():
		return o.marshalMap(w, inst, f)
	case f.IsRepeated():
		return o.marshalRepeated(w, inst, f)
	default:
		return o.marshalSingular(w, inst, f)
	}
}

func (o Options) marshalSingular(w *wireformat.Writer, inst *message.Instance, f *schema.Field) error {
	v, err := inst.Get(f.Name())
	if err != nil {
		return err
	}
	if f.Kind() == wireformat.KindMessage {
		// Presence, not value-equality, decides emission for message-kind
		// fields: a freshly-allocated default has no identity to compare
		// against.
		if v == nil {
			return nil
		}
		w.Tag(f.ID(), wireformat.Bytes)
		w.Fork()
		if err := o.marshalMessage(w, v.(*message.Instance)); err != nil {
			return err
		}
		w.Ldelim()
		return nil
	}
	if !f.IsRequired() && f.IsDefaultScalar(v) {
		return nil
	}
	w.Tag(f.ID(), wireformat.BasicWireType(f.Kind()))
	writeScalar(w, f.Kind(), v)
	return nil
}

func (o Options) marshalRepeated(w *wireformat.Writer, inst *message.Instance, f *schema.Field) error {
	v, err := inst.Get(f.Name())
	if err != nil {
		return err
	}
	list := v.(*message.List)
	if list.Len() == 0 {
		return nil
	}
	if f.Packed() {
		w.Tag(f.ID(), wireformat.Bytes)
		w.Fork()
		for i := 0; i < list.Len(); i++ {
			writeScalar(w, f.Kind(), list.Get(i))
		}
		w.Ldelim()
		return nil
	}
	for i := 0; i < list.Len(); i++ {
		elem := list.Get(i)
		if f.Kind() == wireformat.KindMessage {
			w.Tag(f.ID(), wireformat.Bytes)
			w.Fork()
			if err := o.marshalMessage(w, elem.(*message.Instance)); err != nil {
				return err
			}
			w.Ldelim()
			continue
		}
		w.Tag(f.ID(), wireformat.BasicWireType(f.Kind()))
		writeScalar(w, f.Kind(), elem)
	}
	return nil
}

// mapEntryKeyID and mapEntryValueID are the synthetic field numbers
// assigned to a map field's implicit per-entry submessage.
const (
	mapEntryKeyID   = 1
	mapEntryValueID = 2
)

func (o Options) marshalMap(w *wireformat.Writer, inst *message.Instance, f *schema.Field) error {
	v, err := inst.Get(f.Name())
	if err != nil {
		return err
	}
	m := v.(*message.Map)
	if m.Len() == 0 {
		return nil
	}
	keys := m.Keys()
	if o.Deterministic {
		sortMapKeys(keys, f.KeyKind())
	}
	for _, k := range keys {
		val, _ := m.Get(k)
		w.Tag(f.ID(), wireformat.Bytes)
		w.Fork()
		w.Tag(mapEntryKeyID, wireformat.BasicWireType(f.KeyKind()))
		writeScalar(w, f.KeyKind(), k)
		if f.Kind() == wireformat.KindMessage {
			w.Tag(mapEntryValueID, wireformat.Bytes)
			w.Fork()
			if err := o.marshalMessage(w, val.(*message.Instance)); err != nil {
				return err
			}
			w.Ldelim()
		} else {
			w.Tag(mapEntryValueID, wireformat.BasicWireType(f.Kind()))
			writeScalar(w, f.Kind(), val)
		}
		w.Ldelim()
	}
	return nil
}

func sortMapKeys(keys []interface{}, kind wireformat.Kind) {
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

// WriteScalar dispatches a Go value of the Go representation
// schema.Field.ZeroScalar documents to the matching typed Writer method.
// Exported so encode/specialize's precomputed per-field closures can reuse
// the exact same scalar-writing code instead of duplicating it, which would
// risk the two encoders drifting out of byte-identical sync.
func WriteScalar(w *wireformat.Writer, kind wireformat.Kind, v interface{}) {
	writeScalar(w, kind, v)
}

// MapEntryKeyID and MapEntryValueID are the synthetic field numbers a map
// field's implicit per-entry submessage uses.
const (
	MapEntryKeyID   = mapEntryKeyID
	MapEntryValueID = mapEntryValueID
)

func writeScalar(w *wireformat.Writer, kind wireformat.Kind, v interface{}) {
	switch kind {
	case wireformat.KindBool:
		w.Bool(v.(bool))
	case wireformat.KindString:
		w.String(v.(string))
	case wireformat.KindBytes:
		w.Bytes(v.([]byte))
	case wireformat.KindEnum:
		w.EnumValue(v.(int32))
	case wireformat.KindInt32:
		w.Int32(v.(int32))
	case wireformat.KindSint32:
		w.Sint32(v.(int32))
	case wireformat.KindSfixed32:
		w.Sfixed32(v.(int32))
	case wireformat.KindInt64:
		w.Int64(v.(int64))
	case wireformat.KindSint64:
		w.Sint64(v.(int64))
	case wireformat.KindSfixed64:
		w.Sfixed64(v.(int64))
	case wireformat.KindUint32:
		w.Uint32(v.(uint32))
	case wireformat.KindFixed32:
		w.Fixed32(v.(uint32))
	case wireformat.KindUint64:
		w.Uint64(v.(uint64))
	case wireformat.KindFixed64:
		w.Fixed64(v.(uint64))
	case wireformat.KindFloat:
		w.Float(v.(float32))
	case wireformat.KindDouble:
		w.Double(v.(float64))
	default:
		panic("encode: unhandled scalar kind " + string(kind))
	}
}
