// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ms

import (
	"github.com/dsnet/matchstat/bitvec"
	"github.com/dsnet/matchstat/index"
	"github.com/dsnet/matchstat/internal/errors"
)

// structures index one direction of s.
type structures struct {
	tree *index.SuffixTree
	bwt  *index.BWT
}

// match is the current matched string w, represented by its length and its
// suffix array interval in one of the two indexes.
type match struct {
	lb, rb int
	n      int
}

func (st structures) empty() match {
	lb, rb := st.bwt.Full()
	return match{lb: lb, rb: rb}
}

// extend prepends c to the string of m if the result occurs at least tau
// times.
func (st structures) extend(m *match, c byte, tau int) bool {
	lb, rb, ok := st.bwt.Extend(c, m.lb, m.rb)
	if !ok || rb-lb+1 < tau {
		return false
	}
	m.lb, m.rb, m.n = lb, rb, m.n+1
	return true
}

// shorten truncates the string of m to the depth of the parent of its
// locus, which is the longest prefix with a different interval.
func (st structures) shorten(m *match) {
	v := st.tree.Parent(st.tree.Locus(m.lb, m.rb))
	m.lb, m.rb = st.tree.Interval(v)
	m.n = st.tree.Depth(v)
}

// truncate drops the last symbol from the string of m.
func (st structures) truncate(m *match) {
	m.n--
	if m.n == 0 {
		*m = st.empty()
		return
	}
	v := st.tree.Parent(st.tree.Locus(m.lb, m.rb))
	if m.n == st.tree.Depth(v) {
		m.lb, m.rb = st.tree.Interval(v)
	}
}

type engine struct {
	fwd, rev structures // Indexes of s and of reverse(s)
	tau      int
	t        []byte
}

// markRuns walks t from right to left with backward search over s and
// returns the bit vector whose bit i is set iff MS[i] = MS[i+1] + 1.
//
// The match for position i+1 is a prefix of t[i+1:]. Prepending t[i] to it
// either succeeds, in which case MS[i] = MS[i+1] + 1, or the match is
// shortened to the parent of its locus and extension is retried.
func (e *engine) markRuns() *bitvec.Vector {
	n := len(e.t)
	runs := bitvec.New(n - 1)
	m := e.fwd.empty()
	for i := n - 1; i >= 0; i-- {
		for first := true; ; first = false {
			if e.fwd.extend(&m, e.t[i], e.tau) {
				if first && i < n-1 {
					runs.Set(i, true)
				}
				break
			}
			if m.n == 0 {
				break
			}
			e.fwd.shorten(&m)
		}
	}
	return runs
}

// encode walks t from left to right and writes the unary encoding of the
// matching statistics. The match for position i is t[i:end], tracked as the
// interval of its reversal in the index of reverse(s) so that it can be
// extended at its right end by backward search.
//
// For every position, end-prev zero bits are written followed by a one bit,
// where prev is the end of the previous match. Positions marked in runs keep
// the previous end and need no extension.
func (e *engine) encode(runs *bitvec.Vector) (bits *bitvec.Vector, err error) {
	defer errors.Recover(&err)

	n := len(e.t)
	bits = bitvec.New(2 * n)
	bits.Set(2*n-1, false)
	w := bitvec.NewWriter(bits)
	check := func(err error) {
		if err != nil {
			errors.Panic(err)
		}
	}

	m := e.rev.empty()
	end := 0
	for i := 0; i < n; i++ {
		if i > 0 {
			if m.n == 0 {
				end = i
				check(w.WriteZeros(1))
			} else {
				e.rev.truncate(&m)
			}
			if runs.Get(i - 1) {
				check(w.WriteOne())
				continue
			}
		}
		zeros := 0
		for end < n && e.rev.extend(&m, e.t[end], e.tau) {
			end++
			zeros++
		}
		check(w.WriteZeros(zeros))
		check(w.WriteOne())
	}
	return bits, nil
}

// verify panics if the decoded values violate the bounds of a matching
// statistic or disagree with the run vector.
func verify(st *Stats, t []byte) {
	vals := st.Values()
	if len(vals) != len(t) {
		panic("ms: wrong number of values")
	}
	for i, v := range vals {
		if v < 0 || v > len(t)-i {
			panic("ms: value out of bounds")
		}
		if i > 0 && v < vals[i-1]-1 {
			panic("ms: value decreased by more than one")
		}
		if i+1 < len(vals) && st.Runs().Get(i) != (v == vals[i+1]+1) {
			panic("ms: run vector disagrees with encoding")
		}
	}
}
