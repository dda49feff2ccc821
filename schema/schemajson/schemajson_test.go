// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemajson

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wireproto/protocore/internal/werrors"
)

func sampleDoc() Document {
	return Document{
		Enums: []EnumDoc{
			{Name: "Color", Values: []EnumValueDoc{{Name: "RED", Number: 0}, {Name: "BLUE", Number: 1}}},
		},
		Types: []TypeDoc{
			{
				Name: "Shape",
				Fields: []FieldDoc{
					{Name: "id", ID: 1, Type: "int32"},
					{Name: "color", ID: 2, Type: "Color"},
					{Name: "label", ID: 3, Type: "string"},
					{Name: "area", ID: 4, Type: "float"},
				},
				Oneofs: []OneofDoc{
					{Name: "extra", Fields: []string{"label", "area"}},
				},
			},
		},
	}
}

// TestRoundTrip ensures Parse followed by Render reproduces the input
// document exactly, field order and all.
func TestRoundTrip(t *testing.T) {
	doc := sampleDoc()
	root, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := root.Seal(); len(errs) != 0 {
		t.Fatalf("Seal: %v", errs)
	}
	got := Render(root)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("Render(Parse(doc)) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnknownOneofFieldIsNotFound(t *testing.T) {
	doc := Document{
		Types: []TypeDoc{
			{
				Name:   "M",
				Fields: []FieldDoc{{Name: "a", ID: 1, Type: "int32"}},
				Oneofs: []OneofDoc{{Name: "x", Fields: []string{"missing"}}},
			},
		},
	}
	_, err := Parse(doc)
	if err == nil || !werrors.IsNotFoundError(err) {
		t.Fatalf("Parse(unknown oneof field) = %v, want NotFoundError", err)
	}
}

func TestParseMapFieldRequiresKeyType(t *testing.T) {
	doc := Document{
		Types: []TypeDoc{
			{
				Name:   "M",
				Fields: []FieldDoc{{Name: "attrs", ID: 1, Type: "int32", Map: true}},
			},
		},
	}
	_, err := Parse(doc)
	if err == nil || !werrors.IsTypeError(err) {
		t.Fatalf("Parse(map without keyType) = %v, want TypeError", err)
	}
}
