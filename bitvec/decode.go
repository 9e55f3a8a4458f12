// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitvec

import (
	"fmt"

	"github.com/dsnet/matchstat/internal"
)

// ValueAt decodes the matching statistic at logical position i from the
// select support over an encoded vector. Position -1 is the seed of the
// recurrence and always decodes to 1 without a lookup.
func ValueAt(s *Select, i int) (int, error) {
	if i < -1 {
		return 0, fmt.Errorf("%w: position %d", internal.ErrPrecondition, i)
	}
	if i == -1 {
		return 1, nil
	}
	pos, err := s.Select(i)
	if err != nil {
		return 0, err
	}
	return pos - 2*i, nil
}

// Writer appends unary runs into a pre-allocated Vector.
type Writer struct {
	v   *Vector
	pos int
}

// NewWriter returns a Writer whose cursor starts at bit zero of v.
func NewWriter(v *Vector) *Writer { return &Writer{v: v} }

// Pos reports the position of the write cursor.
func (w *Writer) Pos() int { return w.pos }

// WriteZeros advances the cursor by n zero bits.
func (w *Writer) WriteZeros(n int) error {
	if w.pos+n > w.v.n {
		return w.capacityError(n)
	}
	for i := 0; i < n; i++ {
		w.v.Set(w.pos, false)
		w.pos++
	}
	return nil
}

// WriteOne writes a single one bit at the cursor.
func (w *Writer) WriteOne() error {
	if w.pos >= w.v.n {
		return w.capacityError(1)
	}
	w.v.Set(w.pos, true)
	w.pos++
	return nil
}

func (w *Writer) capacityError(n int) error {
	return fmt.Errorf("%w: writing %d bits at %d of %d", internal.ErrCapacity, n, w.pos, w.v.n)
}
