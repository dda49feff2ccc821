// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"bytes"
	"testing"

	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/message"
	"github.com/wireproto/protocore/schema"
)

func mustSeal(t *testing.T, root *schema.Root) {
	t.Helper()
	if errs := root.Seal(); len(errs) != 0 {
		t.Fatalf("Seal: %v", errs)
	}
}

// TestSimpleScalar checks that a single int32 field set to 150 encodes as
// tag 0x08 followed by varint 150 (0x96 0x01).
func TestSimpleScalar(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	if err := msg.AddField(schema.NewField("count", 1, "int32", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	if err := inst.Set("count", int32(150)); err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(inst)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x08, 0x96, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Marshal = % x, want % x", got, want)
	}
}

// TestPackedRepeated checks that a packed repeated int32 field encodes as
// one length-delimited run of varints.
func TestPackedRepeated(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	f := schema.NewField("nums", 2, "int32", schema.Repeated, nil)
	f.SetPacked(true)
	if err := msg.AddField(f); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	mut, err := inst.Mutable("nums")
	if err != nil {
		t.Fatal(err)
	}
	list := mut.(*message.List)
	list.Append(int32(1))
	list.Append(int32(2))
	list.Append(int32(3))

	got, err := Marshal(inst)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// tag=(2<<3)|2=0x12, len=3, then three 1-byte varints.
	want := []byte{0x12, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Fatalf("Marshal = % x, want % x", got, want)
	}
}

// TestMapField checks that a single string->int32 map entry {"a": 1} on
// field number 7 encodes as one length-delimited submessage with
// synthetic field 1 (key) and field 2 (value).
func TestMapField(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	if err := msg.AddField(schema.NewMapField("attrs", 7, "string", "int32", nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	mut, err := inst.Mutable("attrs")
	if err != nil {
		t.Fatal(err)
	}
	mut.(*message.Map).Set("a", int32(1))

	got, err := Marshal(inst)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// tag=(7<<3)|2=0x3a, len=5, key tag 0x0a + len 1 + "a", value tag 0x10 + varint 1.
	want := []byte{0x3a, 0x05, 0x0a, 0x01, 'a', 0x10, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Marshal = % x, want % x", got, want)
	}
}

func TestRequiredFieldUnsetErrors(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	if err := msg.AddField(schema.NewField("must", 1, "int32", schema.Required, nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	_, err := Marshal(inst)
	if err == nil || !werrors.IsEncodeError(err) {
		t.Fatalf("Marshal(unset required) = %v, want EncodeError", err)
	}

	got, err := Options{AllowPartial: true}.Marshal(inst)
	if err != nil {
		t.Fatalf("Marshal(AllowPartial): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Marshal(AllowPartial) = % x, want empty", got)
	}
}

func TestDefaultScalarElided(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	if err := msg.AddField(schema.NewField("count", 1, "int32", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	if err := inst.Set("count", int32(0)); err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(inst)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Marshal(explicit zero) = % x, want empty (default elision)", got)
	}
}

func TestDeterministicMapOrdering(t *testing.T) {
	root := schema.NewRoot()
	msg := schema.NewType("M", nil)
	if err := msg.AddField(schema.NewMapField("attrs", 1, "string", "int32", nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(msg); err != nil {
		t.Fatal(err)
	}
	mustSeal(t, root)

	inst := message.New(msg)
	mut, _ := inst.Mutable("attrs")
	m := mut.(*message.Map)
	m.Set("z", int32(1))
	m.Set("a", int32(2))

	out1, err := Options{Deterministic: true}.Marshal(inst)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Options{Deterministic: true}.Marshal(inst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("Deterministic Marshal produced different bytes across calls: % x vs % x", out1, out2)
	}
	nonDeterministic, err := Marshal(inst)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(out1, nonDeterministic) {
		// Only meaningful if insertion order ("z" then "a") differs from
		// sorted order ("a" then "z"), which it does here.
		t.Fatalf("expected deterministic output to reorder by key, got identical bytes")
	}
}
