// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package matchstat

import (
	"bytes"
	"errors"
	"os"

	"github.com/dsnet/matchstat/ms"
)

// Fuzz splits the input at the first newline into a text and a query, and
// checks the computed matching statistics against direct counting. The
// internal consistency checks of the engine are enabled by the build tag.
func Fuzz(data []byte) int {
	i := bytes.IndexByte(data, '\n')
	if i <= 0 || len(data) > 1<<10 {
		return -1
	}
	s, t := data[:i], data[i+1:]
	tau := 1 + int(s[0]%4)

	dir, err := os.MkdirTemp("", "matchstat-fuzz")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	cfg := ms.DefaultConfig()
	cfg.BaseDir = dir
	st, err := ms.ComputeBytes(s, t, tau, ms.WithConfig(cfg))
	switch {
	case errors.Is(err, ms.ErrInvalidInput):
		return 0
	case err != nil:
		panic(err)
	}
	for j, got := range st.Values() {
		if want := bruteForce(s, t[j:], tau); got != want {
			panic("mismatching matching statistic")
		}
	}
	return 1
}

// bruteForce reports the length of the longest prefix of t that occurs at
// least tau times in s.
func bruteForce(s, t []byte, tau int) int {
	var n int
	for n < len(t) {
		w, cnt := t[:n+1], 0
		for k := 0; k+len(w) <= len(s); k++ {
			if bytes.Equal(s[k:k+len(w)], w) {
				cnt++
			}
		}
		if cnt < tau {
			break
		}
		n++
	}
	return n
}
