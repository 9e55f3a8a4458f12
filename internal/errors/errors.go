// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements the panic and recover convention used to unwind
// deeply nested decoding and encoding loops.
//
// Code that cannot continue calls Panic (or Assert) with the error to report,
// and the exported entry point defers Recover to turn it back into a
// returned error. Runtime errors are never recovered.
package errors

import "runtime"

// Panic unwinds the stack with err. It must only be called below a deferred
// call to Recover.
func Panic(err error) { panic(err) }

// Assert calls Panic with err if cond is false.
func Assert(cond bool, err error) {
	if !cond {
		Panic(err)
	}
}

// Recover stores an error passed to Panic in err. Any other panic value,
// including runtime errors, is re-raised.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
