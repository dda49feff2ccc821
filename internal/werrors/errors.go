// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package werrors implements the classifiable error kinds used throughout
// the schema graph, instance model, and encoder: TypeError, DuplicateNameError,
// NotFoundError, ResolveError, and EncodeError.
//
// Errors are tagged rather than typed so that callers can classify an error
// with a single boolean-returning predicate, mirroring how
// internal/errors.NonFatal distinguishes RequiredNotSet/InvalidUTF8 errors
// without a type switch.
package werrors

import "fmt"

type kind uint8

const (
	kindType kind = iota + 1
	kindDuplicateName
	kindNotFound
	kindResolve
	kindEncode
)

// Error is the concrete error type returned by this module's public APIs.
type Error struct {
	k   kind
	msg string
}

func (e *Error) Error() string { return "protocore: " + e.msg }

func newf(k kind, format string, args ...interface{}) *Error {
	return &Error{k: k, msg: fmt.Sprintf(format, args...)}
}

// NewType reports that an argument was not of the expected shape, e.g.
// adding a non-Field to a OneOf.
func NewType(format string, args ...interface{}) error { return newf(kindType, format, args...) }

// NewDuplicateName reports that add would create a same-named sibling.
func NewDuplicateName(format string, args ...interface{}) error {
	return newf(kindDuplicateName, format, args...)
}

// NewNotFound reports that a remove/lookup target does not exist in the
// expected parent.
func NewNotFound(format string, args ...interface{}) error {
	return newf(kindNotFound, format, args...)
}

// NewResolve reports that a field's named type reference could not be found.
func NewResolve(format string, args ...interface{}) error { return newf(kindResolve, format, args...) }

// NewEncode reports that a value supplied for a field is not representable
// on the wire.
func NewEncode(format string, args ...interface{}) error { return newf(kindEncode, format, args...) }

func is(err error, k kind) bool {
	e, ok := err.(*Error)
	return ok && e.k == k
}

// IsTypeError reports whether err is a TypeError.
func IsTypeError(err error) bool { return is(err, kindType) }

// IsDuplicateNameError reports whether err is a DuplicateNameError.
func IsDuplicateNameError(err error) bool { return is(err, kindDuplicateName) }

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool { return is(err, kindNotFound) }

// IsResolveError reports whether err is a ResolveError.
func IsResolveError(err error) bool { return is(err, kindResolve) }

// IsEncodeError reports whether err is an EncodeError.
func IsEncodeError(err error) bool { return is(err, kindEncode) }
