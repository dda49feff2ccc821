// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pragma declares types for bestowing Go types with special
// properties since there is no language level support for them.
package pragma

// DoNotImplement can be embedded in an interface to prevent trivial
// implementations of the interface. This is useful to prevent unauthorized
// implementations of an interface so that it can be extended later.
type DoNotImplement interface{ SchemaInternal(DoNotImplement) }

// NoUnkeyedLiterals can be embedded in a struct to prevent unkeyed literals.
type NoUnkeyedLiterals struct{}
