// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encode implements an encoder contract against the schema/message
// packages: a reflective encoder that walks a Type's FieldsArray on every
// call (this package), and a closure-table specialized encoder built once
// per Type (encode/specialize), which must produce byte-identical output.
package encode

import "github.com/wireproto/protocore/internal/pragma"

// Options configures a Marshal call, mirroring proto.MarshalOptions.
type Options struct {
	// AllowPartial allows marshaling a message with an unset Required
	// field instead of returning an EncodeError.
	AllowPartial bool

	// Deterministic requests a reproducible byte output across repeated
	// calls on an equal message: map entries are emitted in key-sorted
	// order instead of Map insertion order, and fields are emitted in
	// field-id order instead of declaration order.
	Deterministic bool

	pragma.NoUnkeyedLiterals
}
