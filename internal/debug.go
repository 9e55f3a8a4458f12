// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug || gofuzz
// +build debug gofuzz

package internal

// Debug enables consistency checks of computed results. The fuzz harnesses
// always build with it.
const Debug = true
