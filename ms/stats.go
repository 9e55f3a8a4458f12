// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ms

import "github.com/dsnet/matchstat/bitvec"

// Stats holds the encoded matching statistics of a query.
type Stats struct {
	bits *bitvec.Vector
	runs *bitvec.Vector
	sel  *bitvec.Select
}

func newStats(bits, runs *bitvec.Vector) *Stats {
	return &Stats{bits: bits, runs: runs, sel: bitvec.NewSelect(bits)}
}

// Bits returns the encoded vector of 2*Len() bits.
func (s *Stats) Bits() *bitvec.Vector { return s.bits }

// Runs returns the vector of Len()-1 bits whose bit i is set iff
// MS[i] = MS[i+1] + 1.
func (s *Stats) Runs() *bitvec.Vector { return s.runs }

// Len reports the length of the query.
func (s *Stats) Len() int { return s.bits.Len() / 2 }

// At decodes MS[i]. At(-1) is 1 by convention.
func (s *Stats) At(i int) (int, error) { return bitvec.ValueAt(s.sel, i) }

// Values decodes every matching statistic in order.
func (s *Stats) Values() []int {
	vals := make([]int, 0, s.Len())
	for p := 0; p < s.bits.Len() && len(vals) < s.Len(); p++ {
		if s.bits.Get(p) {
			vals = append(vals, p-2*len(vals))
		}
	}
	return vals
}
