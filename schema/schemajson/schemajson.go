// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemajson implements a JSON schema input/output surface: a JSON
// description of types, fields, oneofs, enums, and nested types, such that
// every reflection object can round-trip to and from its JSON form.
//
// A natural document shape would key fields and oneofs by name in a JSON
// object, but encoding/json does not preserve object key order on decode
// (nor on encode, which sorts map keys). Declaration-order emission and
// the "first enum value" default both depend on a deterministic
// declaration order, so this implementation uses ordered arrays of
// {name, ...} records instead of maps for anything whose order is
// observable.
package schemajson

import (
	"encoding/json"
	"os"

	"github.com/wireproto/protocore/internal/werrors"
	"github.com/wireproto/protocore/schema"
)

// Document is the root of a schema JSON document.
type Document struct {
	Types []TypeDoc `json:"types,omitempty" yaml:"types,omitempty"`
	Enums []EnumDoc `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// TypeDoc describes one message type declaration.
type TypeDoc struct {
	Name    string                 `json:"name" yaml:"name"`
	Options map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
	Fields  []FieldDoc             `json:"fields,omitempty" yaml:"fields,omitempty"`
	Oneofs  []OneofDoc             `json:"oneofs,omitempty" yaml:"oneofs,omitempty"`
	Nested  []TypeDoc              `json:"nested,omitempty" yaml:"nested,omitempty"`
	Enums   []EnumDoc              `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// FieldDoc describes one field declaration.
type FieldDoc struct {
	Name    string                 `json:"name" yaml:"name"`
	ID      int32                  `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	KeyType string                 `json:"keyType,omitempty" yaml:"keyType,omitempty"`
	Rule    string                 `json:"rule,omitempty" yaml:"rule,omitempty"` // "optional" (default), "required", "repeated"
	Map     bool                   `json:"map,omitempty" yaml:"map,omitempty"`
	Packed  bool                   `json:"packed,omitempty" yaml:"packed,omitempty"`
	Options map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
}

// OneofDoc describes one oneof declaration: the ordered list of field
// names it claims.
type OneofDoc struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
}

// EnumDoc describes one enum declaration.
type EnumDoc struct {
	Name   string         `json:"name" yaml:"name"`
	Values []EnumValueDoc `json:"values" yaml:"values"`
}

// EnumValueDoc describes one symbolic enum value.
type EnumValueDoc struct {
	Name   string `json:"name" yaml:"name"`
	Number int32  `json:"number" yaml:"number"`
}

// Parse builds an unsealed schema.Root from doc. The caller is responsible
// for calling Root.Seal (directly, or via schema.Registry) once every
// cross-referenced document has been loaded.
func Parse(doc Document) (*schema.Root, error) {
	root := schema.NewRoot()
	for _, ed := range doc.Enums {
		e, err := buildEnum(ed)
		if err != nil {
			return nil, err
		}
		if err := root.Add(e); err != nil {
			return nil, err
		}
	}
	for _, td := range doc.Types {
		t, err := buildType(td)
		if err != nil {
			return nil, err
		}
		if err := root.Add(t); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// LoadFile reads and parses a JSON schema document from path.
func LoadFile(path string) (*schema.Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(b)
}

// LoadBytes parses a JSON schema document from raw bytes.
func LoadBytes(b []byte) (*schema.Root, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return Parse(doc)
}

func buildEnum(ed EnumDoc) (*schema.Enum, error) {
	e := schema.NewEnum(ed.Name, nil)
	for _, v := range ed.Values {
		if err := e.AddValue(v.Name, v.Number); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func buildType(td TypeDoc) (*schema.Type, error) {
	t := schema.NewType(td.Name, td.Options)
	for _, ed := range td.Enums {
		e, err := buildEnum(ed)
		if err != nil {
			return nil, err
		}
		if err := t.AddEnum(e); err != nil {
			return nil, err
		}
	}
	for _, nd := range td.Nested {
		nested, err := buildType(nd)
		if err != nil {
			return nil, err
		}
		if err := t.AddNested(nested); err != nil {
			return nil, err
		}
	}
	// Build every field directly onto t first, in the document's own
	// declaration order, so a mix of plain and oneof-member fields ends up
	// attached in source order. Oneof membership is then wired as a second
	// pass: attaching a field to a OneOf detaches it from t, and attaching
	// the OneOf itself to t re-promotes its members, which is the schema
	// graph's normal build-in-isolation-then-attach lifecycle.
	byName := map[string]*schema.Field{}
	for _, fd := range td.Fields {
		f, err := buildField(fd)
		if err != nil {
			return nil, err
		}
		if err := t.AddField(f); err != nil {
			return nil, err
		}
		byName[fd.Name] = f
	}
	for _, od := range td.Oneofs {
		oo := schema.NewOneOf(od.Name, nil)
		for _, fname := range od.Fields {
			f, ok := byName[fname]
			if !ok {
				return nil, werrors.NewNotFound("oneof %s: field %q not declared on message %s", od.Name, fname, td.Name)
			}
			if err := oo.AddField(f); err != nil {
				return nil, err
			}
		}
		if err := t.AddOneof(oo); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func buildField(fd FieldDoc) (*schema.Field, error) {
	rule, err := parseRule(fd.Rule)
	if err != nil {
		return nil, err
	}
	var f *schema.Field
	if fd.Map {
		if fd.KeyType == "" {
			return nil, werrors.NewType("field %s: map field requires keyType", fd.Name)
		}
		f = schema.NewMapField(fd.Name, fd.ID, fd.KeyType, fd.Type, fd.Options)
	} else {
		f = schema.NewField(fd.Name, fd.ID, fd.Type, rule, fd.Options)
	}
	f.SetPacked(fd.Packed)
	return f, nil
}

func parseRule(s string) (schema.Rule, error) {
	switch s {
	case "", "optional":
		return schema.Optional, nil
	case "required":
		return schema.Required, nil
	case "repeated":
		return schema.Repeated, nil
	default:
		return 0, werrors.NewType("unknown field rule %q", s)
	}
}

// Render converts root back to a Document, the inverse of Parse.
func Render(root *schema.Root) Document {
	var doc Document
	for _, e := range root.Enums() {
		doc.Enums = append(doc.Enums, renderEnum(e))
	}
	for _, t := range root.Types() {
		doc.Types = append(doc.Types, renderType(t))
	}
	return doc
}

func renderEnum(e *schema.Enum) EnumDoc {
	ed := EnumDoc{Name: e.Name()}
	for _, name := range e.Values() {
		n, _ := e.NumberOf(name)
		ed.Values = append(ed.Values, EnumValueDoc{Name: name, Number: n})
	}
	return ed
}

func renderType(t *schema.Type) TypeDoc {
	td := TypeDoc{Name: t.Name()}
	if opts := t.Options(); len(opts) != 0 {
		td.Options = opts
	}
	for _, e := range t.Enums() {
		td.Enums = append(td.Enums, renderEnum(e))
	}
	for _, nested := range t.NestedTypes() {
		td.Nested = append(td.Nested, renderType(nested))
	}
	for _, oo := range t.OneofsArray() {
		td.Oneofs = append(td.Oneofs, OneofDoc{Name: oo.Name(), Fields: oo.DeclaredNames()})
	}
	for _, f := range t.FieldsArray() {
		td.Fields = append(td.Fields, renderField(f))
	}
	return td
}

func renderField(f *schema.Field) FieldDoc {
	fd := FieldDoc{
		Name:    f.Name(),
		ID:      f.ID(),
		Type:    f.TypeName(),
		Map:     f.IsMap(),
		KeyType: f.KeyTypeName(),
		Packed:  f.Packed(),
	}
	if opts := f.Options(); len(opts) != 0 {
		fd.Options = opts
	}
	switch f.Rule() {
	case schema.Required:
		fd.Rule = "required"
	case schema.Repeated:
		fd.Rule = "repeated"
	}
	return fd
}
