// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package index

import (
	"bytes"

	"github.com/dsnet/matchstat/internal"
)

// rankStep is the distance between two occurrence checkpoints.
const rankStep = 64

// BWT is the Burrows-Wheeler transform of a sentinel terminated text together
// with its suffix array and the tables needed for backward search.
type BWT struct {
	bwt  []byte
	sa   []int
	c    [257]int   // Number of symbols smaller than each symbol
	syms [256]int16 // Dense index of each symbol in occ, or -1
	occ  [][]int32  // Occurrences before each checkpoint, per dense symbol
}

// NewBWT derives the transform from a text and its suffix array. The text
// must end with the sentinel.
func NewBWT(text []byte, sa []int) *BWT {
	n := len(text)
	bw := &BWT{bwt: make([]byte, n), sa: sa}
	for i, p := range sa {
		if p == 0 {
			p = n
		}
		bw.bwt[i] = text[p-1]
	}
	bw.init()
	return bw
}

func (bw *BWT) init() {
	var cnts [256]int
	for _, b := range bw.bwt {
		cnts[b]++
	}
	var ndense int16
	for s, cnt := range cnts {
		bw.c[s+1] = bw.c[s] + cnt
		bw.syms[s] = -1
		if cnt > 0 {
			bw.syms[s] = ndense
			ndense++
		}
	}

	nchk := len(bw.bwt)/rankStep + 1
	bw.occ = make([][]int32, ndense)
	for i := range bw.occ {
		bw.occ[i] = make([]int32, nchk)
	}
	var run [256]int32
	for i, b := range bw.bwt {
		if i%rankStep == 0 {
			for s, d := range bw.syms {
				if d >= 0 {
					bw.occ[d][i/rankStep] = run[s]
				}
			}
		}
		run[b]++
	}
	if len(bw.bwt)%rankStep == 0 {
		for s, d := range bw.syms {
			if d >= 0 {
				bw.occ[d][nchk-1] = run[s]
			}
		}
	}
}

// Len reports the length of the transform, which includes the sentinel.
func (bw *BWT) Len() int { return len(bw.bwt) }

// At returns the i-th symbol of the transform.
func (bw *BWT) At(i int) byte { return bw.bwt[i] }

// Bytes returns the transform.
func (bw *BWT) Bytes() []byte { return bw.bwt }

// SA returns the suffix array the transform was derived from.
func (bw *BWT) SA() []int { return bw.sa }

// C reports the number of symbols in the text that are smaller than c.
func (bw *BWT) C(c byte) int { return bw.c[c] }

// Rank reports the number of occurrences of c in the first i symbols.
func (bw *BWT) Rank(c byte, i int) int {
	d := bw.syms[c]
	if d < 0 {
		return 0
	}
	k := i / rankStep
	base := int(bw.occ[d][k])
	return base + bytes.Count(bw.bwt[k*rankStep:i], []byte{c})
}

// Full returns the suffix array interval of the empty string.
func (bw *BWT) Full() (lb, rb int) { return 0, len(bw.bwt) - 1 }

// Extend performs one backward search step: given the interval [lb, rb] of a
// string w, it returns the interval of c+w. The result is empty, and ok is
// false, if c+w does not occur. The sentinel never extends a match.
func (bw *BWT) Extend(c byte, lb, rb int) (nlb, nrb int, ok bool) {
	if c == internal.Sentinel {
		return 0, -1, false
	}
	nlb = bw.c[c] + bw.Rank(c, lb)
	nrb = bw.c[c] + bw.Rank(c, rb+1) - 1
	return nlb, nrb, nlb <= nrb
}
