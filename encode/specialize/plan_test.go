// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package specialize

import (
	"bytes"
	"testing"

	"github.com/wireproto/protocore/encode"
	"github.com/wireproto/protocore/message"
	"github.com/wireproto/protocore/schema"
)

func buildTree(t *testing.T) (*schema.Root, *schema.Type) {
	t.Helper()
	root := schema.NewRoot()

	color := schema.NewEnum("Color", nil)
	_ = color.AddValue("RED", 0)
	_ = color.AddValue("BLUE", 1)
	if err := root.Add(color); err != nil {
		t.Fatal(err)
	}

	leaf := schema.NewType("Leaf", nil)
	if err := leaf.AddField(schema.NewField("label", 1, "string", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(leaf); err != nil {
		t.Fatal(err)
	}

	node := schema.NewType("Node", nil)
	if err := node.AddField(schema.NewField("id", 1, "int32", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	if err := node.AddField(schema.NewField("color", 2, "Color", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	if err := node.AddField(schema.NewField("child", 3, "Leaf", schema.Optional, nil)); err != nil {
		t.Fatal(err)
	}
	tagsField := schema.NewField("tags", 4, "string", schema.Repeated, nil)
	if err := node.AddField(tagsField); err != nil {
		t.Fatal(err)
	}
	scoresField := schema.NewField("scores", 5, "int32", schema.Repeated, nil)
	scoresField.SetPacked(true)
	if err := node.AddField(scoresField); err != nil {
		t.Fatal(err)
	}
	if err := node.AddField(schema.NewMapField("attrs", 6, "string", "int32", nil)); err != nil {
		t.Fatal(err)
	}
	if err := root.Add(node); err != nil {
		t.Fatal(err)
	}

	if errs := root.Seal(); len(errs) != 0 {
		t.Fatalf("Seal: %v", errs)
	}
	return root, node
}

func populate(t *testing.T, node *schema.Type) *message.Instance {
	t.Helper()
	inst := message.New(node)
	if err := inst.Set("id", int32(42)); err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("color", int32(1)); err != nil {
		t.Fatal(err)
	}
	childMut, err := inst.Mutable("child")
	if err != nil {
		t.Fatal(err)
	}
	if err := childMut.(*message.Instance).Set("label", "leaf-a"); err != nil {
		t.Fatal(err)
	}
	tagsMut, err := inst.Mutable("tags")
	if err != nil {
		t.Fatal(err)
	}
	tagsMut.(*message.List).Append("x")
	tagsMut.(*message.List).Append("y")
	scoresMut, err := inst.Mutable("scores")
	if err != nil {
		t.Fatal(err)
	}
	scoresMut.(*message.List).Append(int32(10))
	scoresMut.(*message.List).Append(int32(20))
	attrsMut, err := inst.Mutable("attrs")
	if err != nil {
		t.Fatal(err)
	}
	attrsMut.(*message.Map).Set("z", int32(1))
	attrsMut.(*message.Map).Set("a", int32(2))
	return inst
}

// TestByteIdenticalToReflective checks that the specialized encoder
// produces the exact same bytes as the reflective encoder for the same
// Instance, in both default and Deterministic mode.
func TestByteIdenticalToReflective(t *testing.T) {
	_, node := buildTree(t)
	inst := populate(t, node)

	plan, err := Build(node)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, opts := range []encode.Options{{}, {Deterministic: true}} {
		want, err := opts.Marshal(inst)
		if err != nil {
			t.Fatalf("reflective Marshal(%+v): %v", opts, err)
		}
		got, err := plan.Marshal(inst, opts)
		if err != nil {
			t.Fatalf("specialized Marshal(%+v): %v", opts, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("opts=%+v: specialized = % x, reflective = % x", opts, got, want)
		}
	}
}

func TestPlanRejectsWrongType(t *testing.T) {
	_, node := buildTree(t)
	other := schema.NewType("Other", nil)
	root := schema.NewRoot()
	if err := root.Add(other); err != nil {
		t.Fatal(err)
	}
	if errs := root.Seal(); len(errs) != 0 {
		t.Fatalf("Seal: %v", errs)
	}

	plan, err := Build(node)
	if err != nil {
		t.Fatal(err)
	}
	_, err = plan.Marshal(message.New(other), encode.Options{})
	if err == nil {
		t.Fatalf("Marshal(wrong type) = nil error, want TypeError")
	}
}
