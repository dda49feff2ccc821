// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/wireformat"
)

// Rule is a field's cardinality.
type Rule uint8

const (
	Optional Rule = iota
	Required
	Repeated
)

// Field is a single field declaration. Field implements Object; it is a
// child of at most one Type (Parent) and optionally belongs to a OneOf
// (PartOf), independently of each other until the owning OneOf is
// attached to a message.
type Field struct {
	base

	id       int32
	typeName string // scalar kind name, or a (possibly dotted) type reference
	rule     Rule
	packed   bool

	isMap       bool
	keyTypeName string // only meaningful if isMap

	partOf *OneOf

	resolved     bool
	kind         wireformat.Kind
	keyKind      wireformat.Kind
	resolvedType interface{} // *Enum or *Type, nil for scalar kinds
}

// NewField constructs a detached, unresolved Field.
func NewField(name string, id int32, typeName string, rule Rule, options map[string]interface{}) *Field {
	return &Field{base: newBase(name, options), id: id, typeName: typeName, rule: rule}
}

// NewMapField constructs a detached map field: typeName is the value kind
// or type reference, keyTypeName must name an integral/bool/string scalar.
func NewMapField(name string, id int32, keyTypeName, typeName string, options map[string]interface{}) *Field {
	f := NewField(name, id, typeName, Repeated, options)
	f.isMap = true
	f.keyTypeName = keyTypeName
	return f
}

func (f *Field) ID() int32        { return f.id }
func (f *Field) TypeName() string { return f.typeName }
func (f *Field) Rule() Rule       { return f.rule }
func (f *Field) IsRequired() bool { return f.rule == Required }
func (f *Field) IsRepeated() bool { return f.rule == Repeated }
func (f *Field) IsMap() bool      { return f.isMap }
func (f *Field) KeyTypeName() string { return f.keyTypeName }
func (f *Field) PartOf() *OneOf   { return f.partOf }

// SetPacked requests packed encoding; meaningful only when Repeated and the
// resolved element kind is in the packable set.
func (f *Field) SetPacked(v bool) { f.packed = v }

// Packed reports whether packed encoding applies: the flag is set, the
// field is repeated and not a map, and the resolved kind is packable.
// Before the field is resolved the kind is not checked.
func (f *Field) Packed() bool {
	return f.packed && f.rule == Repeated && !f.isMap && (!f.resolved || wireformat.IsPackable(f.kind))
}

func (f *Field) onAdd(parent Namespace) error { return nil }
func (f *Field) onRemove(parent Namespace)    {}

var _ Object = (*Field)(nil)

// Kind returns the field's resolved scalar/message/enum kind. It panics if
// the field has not yet been resolved; callers should call Resolve (or
// Type.Seal, which resolves every field) first.
func (f *Field) Kind() wireformat.Kind {
	if !f.resolved {
		panic("schema: field " + f.name + " accessed before Resolve")
	}
	return f.kind
}

// KeyKind returns the resolved map key kind. It panics if the field is not
// a map field or has not been resolved.
func (f *Field) KeyKind() wireformat.Kind {
	if !f.isMap {
		panic("schema: field " + f.name + " is not a map field")
	}
	if !f.resolved {
		panic("schema: field " + f.name + " accessed before Resolve")
	}
	return f.keyKind
}

// ResolvedType returns the Enum or *Type this field's kind resolved to, or
// nil for scalar kinds.
func (f *Field) ResolvedType() interface{} {
	return f.resolvedType
}

// IsLong reports whether the resolved kind is a 64-bit integer. The
// encoders do not consult it: IsDefaultScalar applies the same typed
// comparison to every scalar kind.
func (f *Field) IsLong() bool { return wireformat.IsLong(f.kind) }

// Resolve is idempotent: for a scalar kind it just records the kind; for a
// named kind it performs Namespace.Lookup from the field's parent for
// TypeName (and KeyTypeName for maps), binding ResolvedType. It returns a
// ResolveError if a named type cannot be found. The Type remains usable,
// and other fields still resolve, if one field fails.
func (f *Field) Resolve() error {
	if f.resolved {
		return nil
	}
	kind, resolvedType, err := resolveKind(f, f.typeName)
	if err != nil {
		return err
	}
	f.kind = kind
	f.resolvedType = resolvedType

	if f.isMap {
		keyKind, _, err := resolveKind(f, f.keyTypeName)
		if err != nil {
			return err
		}
		if !wireformat.IsMapKeyEligible(keyKind) {
			return werrors.NewResolve("field %s: kind %q is not eligible as a map key", f.name, keyKind)
		}
		f.keyKind = keyKind
	}

	f.resolved = true
	return nil
}

func resolveKind(f *Field, typeName string) (wireformat.Kind, interface{}, error) {
	if k := wireformat.Kind(typeName); wireformat.ScalarKinds[k] {
		return k, nil, nil
	}
	parent := f.Parent()
	if parent == nil {
		return "", nil, werrors.NewResolve("field %s: cannot resolve %q without a parent namespace", f.name, typeName)
	}
	obj := parent.Lookup(typeName)
	if obj == nil {
		return "", nil, werrors.NewResolve("field %s: could not resolve type %q", f.name, typeName)
	}
	switch t := obj.(type) {
	case *Enum:
		return wireformat.KindEnum, t, nil
	case *Type:
		return wireformat.KindMessage, t, nil
	default:
		return "", nil, werrors.NewResolve("field %s: %q does not name an enum or message type", f.name, typeName)
	}
}

// DefaultEnumValue returns the number of the first declared value of the
// resolved enum type. It panics if the field is not an enum-kind field.
func (f *Field) DefaultEnumValue() int32 {
	e, ok := f.resolvedType.(*Enum)
	if !ok {
		panic("schema: field " + f.name + " is not enum-kind")
	}
	return e.FirstValue()
}

// ZeroScalar returns the zero/default value for a scalar, string, bytes, or
// enum kind in its native Go representation. Message-kind fields have no
// ZeroScalar; message.Instance materializes a fresh zero message on demand
// instead (see DESIGN.md).
func (f *Field) ZeroScalar() interface{} {
	switch f.kind {
	case wireformat.KindBool:
		return false
	case wireformat.KindString:
		return ""
	case wireformat.KindBytes:
		return []byte(nil)
	case wireformat.KindEnum:
		return f.DefaultEnumValue()
	case wireformat.KindInt32, wireformat.KindSint32, wireformat.KindSfixed32:
		return int32(0)
	case wireformat.KindInt64, wireformat.KindSint64, wireformat.KindSfixed64:
		return int64(0)
	case wireformat.KindUint32, wireformat.KindFixed32:
		return uint32(0)
	case wireformat.KindUint64, wireformat.KindFixed64:
		return uint64(0)
	case wireformat.KindFloat:
		return float32(0)
	case wireformat.KindDouble:
		return float64(0)
	default:
		panic("schema: field " + f.name + " has no scalar zero value (kind " + string(f.kind) + ")")
	}
}

// IsDefaultScalar reports whether v equals this field's scalar zero value,
// using an explicit typed comparison per scalar kind. Go has no implicit
// coercion to make "loose" equality differ from "strict" equality here, so
// both collapse to this one typed comparison regardless of IsLong.
func (f *Field) IsDefaultScalar(v interface{}) bool {
	switch f.kind {
	case wireformat.KindBool:
		return v.(bool) == false
	case wireformat.KindString:
		return v.(string) == ""
	case wireformat.KindBytes:
		return len(v.([]byte)) == 0
	case wireformat.KindEnum:
		return v.(int32) == f.DefaultEnumValue()
	case wireformat.KindInt32, wireformat.KindSint32, wireformat.KindSfixed32:
		return v.(int32) == 0
	case wireformat.KindInt64, wireformat.KindSint64, wireformat.KindSfixed64:
		return v.(int64) == 0
	case wireformat.KindUint32, wireformat.KindFixed32:
		return v.(uint32) == 0
	case wireformat.KindUint64, wireformat.KindFixed64:
		return v.(uint64) == 0
	case wireformat.KindFloat:
		return v.(float32) == 0
	case wireformat.KindDouble:
		return v.(float64) == 0
	default:
		panic("schema: field " + f.name + " has no scalar default (kind " + string(f.kind) + ")")
	}
}
