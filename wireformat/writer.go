// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wireformat

import "math"

// speculativeLength is the number of bytes a fork reserves up front for the
// eventual varint length prefix. Generalized from proto/encode.go's
// appendSpeculativeLength/finishSpeculativeLength pair: most nested
// messages are under 128 bytes, so reserving one byte and shifting on
// overflow is cheaper than a two-pass length computation.
const speculativeLength = 1

// Writer is an append-only byte buffer with varint/fixed primitives, tag
// emission, and nested length-delimited framing. It is the external
// collaborator the encoder is written against; the encoder never inspects
// Writer state beyond calling its methods.
type Writer struct {
	buf   []byte
	forks []int // buffer offsets of open forks, most recent last
}

// NewWriter returns a Writer ready to accept writes.
func NewWriter() *Writer { return &Writer{} }

// Tag writes the varint tag for (fieldID, wt).
func (w *Writer) Tag(fieldID int32, wt WireType) { w.buf = AppendTag(w.buf, fieldID, wt) }

// Fork begins a nested length-delimited region. Every Fork must be matched
// by exactly one Ldelim on this Writer before Finish is called.
func (w *Writer) Fork() {
	pos := len(w.buf)
	w.buf = append(w.buf, "\x00\x00\x00\x00"[:speculativeLength]...)
	w.forks = append(w.forks, pos)
}

// Ldelim closes the most recently opened Fork, prefixing the bytes written
// since with their length as a varint, shifting them if the placeholder
// reserved too few bytes. It panics if there is no open fork, which would
// indicate an encoder bug rather than a caller input error.
func (w *Writer) Ldelim() {
	n := len(w.forks)
	if n == 0 {
		panic("wireformat: ldelim with no matching fork")
	}
	pos := w.forks[n-1]
	w.forks = w.forks[:n-1]

	mlen := len(w.buf) - pos - speculativeLength
	msiz := SizeVarint(uint64(mlen))
	if msiz != speculativeLength {
		for i := 0; i < msiz-speculativeLength; i++ {
			w.buf = append(w.buf, 0)
		}
		copy(w.buf[pos+msiz:], w.buf[pos+speculativeLength:])
		w.buf = w.buf[:pos+msiz+mlen]
	}
	AppendVarint(w.buf[:pos], uint64(mlen))
}

// OpenForks reports the number of Fork calls not yet matched by Ldelim.
func (w *Writer) OpenForks() int { return len(w.forks) }

// Finish returns the final byte buffer. The caller must not call any other
// Writer method afterward.
func (w *Writer) Finish() []byte { return w.buf }

// Reset empties the writer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.forks = w.forks[:0]
}

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = AppendVarint(w.buf, 1)
	} else {
		w.buf = AppendVarint(w.buf, 0)
	}
}

func (w *Writer) Int32(v int32)  { w.buf = AppendVarint(w.buf, uint64(int64(v))) }
func (w *Writer) Int64(v int64)  { w.buf = AppendVarint(w.buf, uint64(v)) }
func (w *Writer) Uint32(v uint32) { w.buf = AppendVarint(w.buf, uint64(v)) }
func (w *Writer) Uint64(v uint64) { w.buf = AppendVarint(w.buf, v) }
func (w *Writer) Sint32(v int32)  { w.buf = AppendVarint(w.buf, uint64(EncodeZigZag32(v))) }
func (w *Writer) Sint64(v int64)  { w.buf = AppendVarint(w.buf, EncodeZigZag64(v)) }

// EnumValue writes an enum number using the uint32 wire representation
// enum-typed fields are encoded with.
func (w *Writer) EnumValue(v int32) { w.buf = AppendVarint(w.buf, uint64(uint32(v))) }

func (w *Writer) Fixed32(v uint32)  { w.buf = AppendFixed32(w.buf, v) }
func (w *Writer) Fixed64(v uint64)  { w.buf = AppendFixed64(w.buf, v) }
func (w *Writer) Sfixed32(v int32)  { w.buf = AppendFixed32(w.buf, uint32(v)) }
func (w *Writer) Sfixed64(v int64)  { w.buf = AppendFixed64(w.buf, uint64(v)) }
func (w *Writer) Float(v float32)   { w.buf = AppendFixed32(w.buf, math.Float32bits(v)) }
func (w *Writer) Double(v float64)  { w.buf = AppendFixed64(w.buf, math.Float64bits(v)) }

func (w *Writer) String(v string) {
	w.buf = AppendVarint(w.buf, uint64(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *Writer) Bytes(v []byte) {
	w.buf = AppendVarint(w.buf, uint64(len(v)))
	w.buf = append(w.buf, v...)
}
