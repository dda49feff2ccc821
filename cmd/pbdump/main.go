// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The pbdump binary loads a JSON or YAML schema document, seals it, builds
// an empty instance of a named top-level message type, and prints the
// reflective and specialized encoder output for that instance side by
// side. It exists to let a developer eyeball that both encoders agree on a
// schema before wiring it into a larger program.
package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wireproto/protocore/encode"
	"github.com/wireproto/protocore/encode/specialize"
	"github.com/wireproto/protocore/message"
	"github.com/wireproto/protocore/schema"
	"github.com/wireproto/protocore/schema/schemajson"
	"github.com/wireproto/protocore/schema/schemayaml"
)

func main() {
	var (
		schemaPath    = flag.String("schema", "", "path to a JSON or YAML schema document (required)")
		typeName      = flag.String("type", "", "top-level message type name to instantiate (required)")
		deterministic = flag.Bool("deterministic", false, "marshal with deterministic field and map ordering")
		session       = flag.String("session", "", "session id to tag this run's diagnostics with (default: a freshly generated UUID)")
	)
	flag.Parse()

	if *schemaPath == "" || *typeName == "" {
		fmt.Fprintln(os.Stderr, "pbdump: -schema and -type are required")
		flag.Usage()
		os.Exit(2)
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := run(os.Stdout, *schemaPath, *typeName, *deterministic, sessionID); err != nil {
		fmt.Fprintf(os.Stderr, "pbdump[%s]: %v\n", sessionID, err)
		os.Exit(1)
	}
}

func run(out io.Writer, schemaPath, typeName string, deterministic bool, sessionID string) error {
	root, err := loadSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if errs := root.Seal(); len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "pbdump[%s]: seal warning: %v\n", sessionID, e)
		}
	}

	obj := root.Get(typeName)
	t, ok := obj.(*schema.Type)
	if !ok {
		return fmt.Errorf("no top-level message type named %q", typeName)
	}

	inst := message.New(t)
	opts := encode.Options{Deterministic: deterministic}

	reflective, err := opts.Marshal(inst)
	if err != nil {
		return fmt.Errorf("reflective marshal: %w", err)
	}
	plan, err := specialize.Build(t)
	if err != nil {
		return fmt.Errorf("build specialized plan: %w", err)
	}
	specialized, err := plan.Marshal(inst, opts)
	if err != nil {
		return fmt.Errorf("specialized marshal: %w", err)
	}

	fmt.Fprintf(out, "session      %s\n", sessionID)
	fmt.Fprintf(out, "type         %s\n", typeName)
	fmt.Fprintf(out, "deterministic %v\n", deterministic)
	fmt.Fprintf(out, "reflective   %s\n", hexDump(reflective))
	fmt.Fprintf(out, "specialized  %s\n", hexDump(specialized))
	if bytes.Equal(reflective, specialized) {
		fmt.Fprintln(out, "match        yes")
	} else {
		fmt.Fprintln(out, "match        NO - encoders disagree")
	}
	return nil
}

func loadSchema(path string) (*schema.Root, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schemayaml.LoadFile(path)
	default:
		return schemajson.LoadFile(path)
	}
}

func hexDump(b []byte) string {
	if len(b) == 0 {
		return "(empty)"
	}
	return hex.EncodeToString(b)
}
