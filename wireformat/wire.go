// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wireformat implements the static wire-type table and the
// varint/zigzag/fixed primitives the Writer builds on. It has no
// knowledge of the schema graph; callers identify fields by Kind alone,
// exactly as a FieldDescriptor's Kind does in reflect/protoreflect.
package wireformat

// WireType is the 3-bit on-wire framing classifier.
type WireType uint8

const (
	Varint  WireType = 0
	Fixed64 WireType = 1
	Bytes   WireType = 2
	Fixed32 WireType = 5
)

// Kind enumerates the scalar kinds a field may declare directly, plus the
// two kinds a Field takes on only after resolution (Message, Enum).
type Kind string

const (
	KindDouble   Kind = "double"
	KindFloat    Kind = "float"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindSint32   Kind = "sint32"
	KindSint64   Kind = "sint64"
	KindFixed32  Kind = "fixed32"
	KindFixed64  Kind = "fixed64"
	KindSfixed32 Kind = "sfixed32"
	KindSfixed64 Kind = "sfixed64"
	KindBool     Kind = "bool"
	KindString   Kind = "string"
	KindBytes    Kind = "bytes"

	// KindMessage and KindEnum are never spelled in schema input; they are
	// assigned to a Field once its named type reference resolves to a
	// message Type or an Enum, respectively.
	KindMessage Kind = "message"
	KindEnum    Kind = "enum"
)

// ScalarKinds is the set of kind names a Field.Type may name directly
// without requiring resolution against the schema graph.
var ScalarKinds = map[Kind]bool{
	KindDouble: true, KindFloat: true,
	KindInt32: true, KindInt64: true, KindUint32: true, KindUint64: true,
	KindSint32: true, KindSint64: true,
	KindFixed32: true, KindFixed64: true, KindSfixed32: true, KindSfixed64: true,
	KindBool: true, KindString: true, KindBytes: true,
}

// wireTypes is the static scalar-kind -> wire-tag mapping (component 1).
var wireTypes = map[Kind]WireType{
	KindDouble: Fixed64, KindFloat: Fixed32,
	KindInt32: Varint, KindInt64: Varint, KindUint32: Varint, KindUint64: Varint,
	KindSint32: Varint, KindSint64: Varint,
	KindFixed32: Fixed32, KindFixed64: Fixed64, KindSfixed32: Fixed32, KindSfixed64: Fixed64,
	KindBool: Varint, KindString: Bytes, KindBytes: Bytes,
	KindMessage: Bytes, KindEnum: Varint,
}

// BasicWireType returns the wire type used for a singular, non-packed
// occurrence of kind.
func BasicWireType(k Kind) WireType {
	wt, ok := wireTypes[k]
	if !ok {
		panic("wireformat: unknown kind " + string(k))
	}
	return wt
}

// packableKinds is every numeric scalar and bool, plus enum: enum values
// are encoded identically to uint32 and are packable on the wire too.
var packableKinds = map[Kind]bool{
	KindDouble: true, KindFloat: true,
	KindInt32: true, KindInt64: true, KindUint32: true, KindUint64: true,
	KindSint32: true, KindSint64: true,
	KindFixed32: true, KindFixed64: true, KindSfixed32: true, KindSfixed64: true,
	KindBool: true, KindEnum: true,
}

// IsPackable reports whether k may be used with Field.Packed.
func IsPackable(k Kind) bool { return packableKinds[k] }

// mapKeyKinds is every integral/bool/string scalar: map keys are
// restricted to those kinds.
var mapKeyKinds = map[Kind]bool{
	KindInt32: true, KindInt64: true, KindUint32: true, KindUint64: true,
	KindSint32: true, KindSint64: true,
	KindFixed32: true, KindFixed64: true, KindSfixed32: true, KindSfixed64: true,
	KindBool: true, KindString: true,
}

// IsMapKeyEligible reports whether k may be used as Field.KeyType.
func IsMapKeyEligible(k Kind) bool { return mapKeyKinds[k] }

// IsLong reports whether k is a 64-bit integer kind.
func IsLong(k Kind) bool {
	switch k {
	case KindInt64, KindUint64, KindSint64, KindFixed64, KindSfixed64:
		return true
	default:
		return false
	}
}

// EncodeZigZag32 maps a signed 32-bit integer to an unsigned 32-bit integer
// using the zig-zag encoding used by the sint32 wire kind.
func EncodeZigZag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// EncodeZigZag64 is the 64-bit counterpart of EncodeZigZag32.
func EncodeZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// SizeVarint reports the number of bytes AppendVarint would produce for v.
func SizeVarint(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarint appends v to b using base-128 varint encoding (least
// significant group first, continuation bit set on all but the last byte).
func AppendVarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// AppendFixed32 appends v to b as 4 little-endian bytes.
func AppendFixed32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// AppendFixed64 appends v to b as 8 little-endian bytes.
func AppendFixed64(b []byte, v uint64) []byte {
	return append(b,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// AppendTag appends the tag byte sequence for (fieldID, wt): (fieldID<<3)|wt.
func AppendTag(b []byte, fieldID int32, wt WireType) []byte {
	return AppendVarint(b, uint64(fieldID)<<3|uint64(wt))
}
