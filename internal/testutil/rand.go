// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand implements a deterministic pseudo-random number generator.
// The exact output is stable across Go versions, which keeps randomized
// sequence tests reproducible.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func NewRand(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

func (r *Rand) Int() int {
	r.Encrypt(r.blk[:], r.blk[:])
	return int(binary.LittleEndian.Uint64(r.blk[:8]) >> 2)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Sequence returns n symbols drawn uniformly from alphabet.
func (r *Rand) Sequence(alphabet string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return b
}

// Mutate returns a copy of seq where each symbol is replaced by a random
// symbol from alphabet with probability 1/every.
func (r *Rand) Mutate(seq []byte, alphabet string, every int) []byte {
	out := append([]byte(nil), seq...)
	for i := range out {
		if r.Intn(every) == 0 {
			out[i] = alphabet[r.Intn(len(alphabet))]
		}
	}
	return out
}

// Repeats returns n symbols from alphabet where most of the sequence is a
// copy of some earlier stretch, possibly overlapping itself. Such sequences
// produce deep suffix trees with many internal nodes.
func (r *Rand) Repeats(alphabet string, n int) []byte {
	b := make([]byte, 0, n+64)
	for len(b) < n {
		l := 4 + r.Intn(60)
		if len(b) < 8 || r.Intn(4) == 0 {
			b = append(b, r.Sequence(alphabet, l)...)
			continue
		}
		d := 1 + r.Intn(len(b))
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}
	return b[:n]
}
