// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemayaml is a thin YAML front end over schemajson.Document,
// for hand-written schema files. It shares every field and struct tag
// shape with schemajson.Document and differs only in which marshaler
// decodes the bytes.
package schemayaml

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wireproto/protocore/schema"
	"github.com/wireproto/protocore/schema/schemajson"
)

// LoadFile reads and parses a YAML schema document from path.
func LoadFile(path string) (*schema.Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(b)
}

// LoadBytes parses a YAML schema document from raw bytes.
func LoadBytes(b []byte) (*schema.Root, error) {
	var doc schemajson.Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return schemajson.Parse(doc)
}

// Render marshals root to its YAML document form (the same shape
// schemajson.Render produces, re-encoded as YAML).
func Render(root *schema.Root) ([]byte, error) {
	return yaml.Marshal(schemajson.Render(root))
}
