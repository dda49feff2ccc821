// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wireformat

import (
	"bytes"
	"testing"
)

func TestAppendVarint(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{150, []byte{0x96, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, tt := range tests {
		got := AppendVarint(nil, tt.v)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("AppendVarint(%d) = % x, want % x", tt.v, got, tt.want)
		}
		if SizeVarint(tt.v) != len(tt.want) {
			t.Errorf("SizeVarint(%d) = %d, want %d", tt.v, SizeVarint(tt.v), len(tt.want))
		}
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		v    int32
		want uint32
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {2147483647, 4294967294},
	}
	for _, tt := range tests {
		if got := EncodeZigZag32(tt.v); got != tt.want {
			t.Errorf("EncodeZigZag32(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestWriterScalarTag(t *testing.T) {
	// required int32 a=1 set to 150 -> 08 96 01
	w := NewWriter()
	w.Tag(1, Varint)
	w.Int32(150)
	got := w.Finish()
	want := []byte{0x08, 0x96, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestWriterForkLdelim(t *testing.T) {
	// map<string,int32> m=7 {"a":1} -> 3a 05 0a 01 61 10 01
	w := NewWriter()
	w.Tag(7, Bytes)
	w.Fork()
	w.Tag(1, Bytes)
	w.String("a")
	w.Tag(2, Varint)
	w.Int32(1)
	w.Ldelim()
	if w.OpenForks() != 0 {
		t.Fatalf("OpenForks() = %d, want 0", w.OpenForks())
	}
	got := w.Finish()
	want := []byte{0x3a, 0x05, 0x0a, 0x01, 0x61, 0x10, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestWriterForkOverflowShift(t *testing.T) {
	w := NewWriter()
	w.Tag(1, Bytes)
	w.Fork()
	for i := 0; i < 200; i++ {
		w.Bytes([]byte{0})
	}
	w.Ldelim()
	got := w.Finish()
	// Inner content is 200 * 2 bytes = 400, which needs a 2-byte varint length.
	if got[1] != 0x90 || got[2] != 0x03 {
		t.Fatalf("length prefix = % x, want 90 03", got[1:3])
	}
	if len(got) != 1+2+400 {
		t.Fatalf("len(got) = %d, want %d", len(got), 1+2+400)
	}
}

func TestWriterLdelimWithoutForkPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewWriter().Ldelim()
}
