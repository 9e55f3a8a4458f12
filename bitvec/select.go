// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitvec

import (
	"fmt"

	"github.com/dsnet/matchstat/internal"
)

// sampleRate is the number of one bits between two position samples.
const sampleRate = 64

// Select answers select-on-ones queries over a Vector. The vector must not be
// modified after the Select is created.
type Select struct {
	v       *Vector
	ones    int
	samples []int // Position of the (m*sampleRate)-th one bit
}

// NewSelect builds the select support for v.
func NewSelect(v *Vector) *Select {
	s := &Select{v: v}
	for i := 0; i < v.n; i++ {
		if !getBit(v.buf, i) {
			continue
		}
		if s.ones%sampleRate == 0 {
			s.samples = append(s.samples, i)
		}
		s.ones++
	}
	return s
}

// Ones reports the number of one bits in the underlying vector.
func (s *Select) Ones() int { return s.ones }

// Select returns the position of the k-th one bit, where k is 0-indexed.
// It reports ErrOutOfRange if the vector holds k or fewer one bits.
func (s *Select) Select(k int) (int, error) {
	if k < 0 || k >= s.ones {
		return 0, fmt.Errorf("%w: select(%d) with %d set bits", internal.ErrOutOfRange, k, s.ones)
	}
	pos := s.samples[k/sampleRate]
	rem := k % sampleRate
	if rem == 0 {
		return pos, nil
	}

	// Finish the current byte bit by bit, then skip whole bytes.
	for pos++; pos&7 != 0; pos++ {
		if getBit(s.v.buf, pos) {
			if rem--; rem == 0 {
				return pos, nil
			}
		}
	}
	for {
		ones := countByte(s.v.buf[pos/8])
		if ones >= rem {
			break
		}
		rem -= ones
		pos += 8
	}
	for ; ; pos++ {
		if getBit(s.v.buf, pos) {
			if rem--; rem == 0 {
				return pos, nil
			}
		}
	}
}
