// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMatchesEncoders(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	const doc = `{
		"types": [
			{
				"name": "Greeting",
				"fields": [
					{"name": "text", "id": 1, "type": "string"}
				]
			}
		]
	}`
	if err := os.WriteFile(schemaPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	if err := run(&buf, schemaPath, "Greeting", false, "test-session"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "match        yes") {
		t.Fatalf("output did not report a match:\n%s", out)
	}
	if !strings.Contains(out, "test-session") {
		t.Fatalf("output missing session id:\n%s", out)
	}
}

func TestRunUnknownType(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(schemaPath, []byte(`{"types":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	if err := run(&buf, schemaPath, "Missing", false, "s"); err == nil {
		t.Fatalf("run(unknown type) = nil error, want error")
	}
}
