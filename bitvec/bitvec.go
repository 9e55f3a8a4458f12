// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitvec implements a packed bit vector with select support, and the
// decoder that turns a unary-coded matching statistics vector back into
// integer values.
//
// The matching statistics encoding stores, for every position i of the query,
// a run of zero bits followed by a single one bit. The run length is the
// amount by which the end of the match advanced relative to position i-1, so
// that the i-th one bit (counting from zero) sits at MS[i] + 2*i.
package bitvec

import (
	"fmt"
	"strings"

	"github.com/dsnet/matchstat/internal"
)

// Vector is a fixed-length bit vector. The zero value is an empty vector.
type Vector struct {
	buf []byte
	n   int
}

// New returns a vector of n zero bits.
func New(n int) *Vector {
	v := new(Vector)
	v.Resize(n)
	return v
}

// FromBytes returns a vector of n bits copied from buf, which holds bits in
// LSB-first order. Bits in buf beyond n are ignored.
func FromBytes(buf []byte, n int) (*Vector, error) {
	if n < 0 || 8*len(buf) < n {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d bits", internal.ErrPrecondition, len(buf), n)
	}
	v := &Vector{buf: append([]byte(nil), buf[:(n+7)/8]...), n: n}
	if rem := n % 8; rem > 0 {
		v.buf[len(v.buf)-1] &= byte(1)<<uint(rem) - 1
	}
	return v, nil
}

// Len reports the number of bits in the vector.
func (v *Vector) Len() int { return v.n }

// Get reports whether bit i is set.
func (v *Vector) Get(i int) bool {
	if uint(i) >= uint(v.n) {
		panic("bitvec: index out of range")
	}
	return getBit(v.buf, i)
}

// Set assigns bit i.
func (v *Vector) Set(i int, b bool) {
	if uint(i) >= uint(v.n) {
		panic("bitvec: index out of range")
	}
	setBit(v.buf, b, i)
}

// Resize changes the length of the vector to n bits. Bits beyond the old
// length are zero and bits beyond the new length are discarded.
func (v *Vector) Resize(n int) {
	if n < 0 {
		panic("bitvec: negative length")
	}
	for i := n; i < v.n; i++ {
		setBit(v.buf, false, i) // Bits past the length always stay clear
	}
	nb := (n + 7) / 8
	if nb <= cap(v.buf) {
		v.buf = v.buf[:nb]
	} else {
		buf := make([]byte, nb)
		copy(buf, v.buf)
		v.buf = buf
	}
	v.n = n
}

// Ones reports the number of set bits.
func (v *Vector) Ones() int { return countBits(v.buf) }

// Rank1 reports the number of set bits in the range [0, i).
func (v *Vector) Rank1(i int) int {
	if i < 0 || i > v.n {
		panic("bitvec: index out of range")
	}
	cnt := countBits(v.buf[:i/8])
	for j := i &^ 7; j < i; j++ {
		if getBit(v.buf, j) {
			cnt++
		}
	}
	return cnt
}

// Bytes returns the packed representation. Padding bits are always zero.
func (v *Vector) Bytes() []byte { return v.buf }

// String renders the vector as a string of '0' and '1' characters.
func (v *Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if getBit(v.buf, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
