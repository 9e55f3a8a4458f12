// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal is a collection of helpers shared by the matching
// statistics packages.
//
// For performance reasons, these packages lack strong error checking and
// require that the caller to ensure that strict invariants are kept.
package internal

import "bytes"

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "matchstat: " + string(e) }

var (
	// ErrPrecondition reports caller misuse: an empty sequence, tau < 1, or
	// an index below -1.
	ErrPrecondition error = Error("precondition violated")

	// ErrNotFound reports that a referenced source file does not exist.
	ErrNotFound error = Error("source file not found")

	// ErrInvalidInput reports that a text contains the zero sentinel symbol.
	ErrInvalidInput error = Error("sentinel symbol collision")

	// ErrCapacity reports that the bit vector write cursor overran its
	// allocation. It always indicates a broken invariant upstream.
	ErrCapacity error = Error("bit vector capacity exceeded")

	// ErrIO reports a filesystem failure during materialization or
	// structure construction.
	ErrIO error = Error("i/o failure")

	// ErrOutOfRange reports a select past the last set bit.
	ErrOutOfRange error = Error("index out of range")
)

// Sentinel is the symbol appended to every indexed text. It must not occur
// inside the text itself.
const Sentinel = 0

// Reverse returns a reversed copy of buf.
func Reverse(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, j := 0, len(buf)-1; j >= 0; i, j = i+1, j-1 {
		out[i] = buf[j]
	}
	return out
}

// IndexSentinel returns the position of the first sentinel symbol in buf,
// or -1 if there is none.
func IndexSentinel(buf []byte) int {
	return bytes.IndexByte(buf, Sentinel)
}
