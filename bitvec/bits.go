// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitvec

import "math/bits"

// Bits are packed LSB-first: bit i lives in buf[i/8] at position i%8.

func getBit(buf []byte, i int) bool {
	return buf[i/8]&(1<<uint(i%8)) != 0
}

func setBit(buf []byte, b bool, i int) {
	if b {
		buf[i/8] |= 1 << uint(i%8)
	} else {
		buf[i/8] &^= 1 << uint(i%8)
	}
}

func countByte(b byte) int { return bits.OnesCount8(b) }

func countBits(buf []byte) (n int) {
	for len(buf) >= 8 {
		n += bits.OnesCount64(uint64(buf[0]) | uint64(buf[1])<<8 |
			uint64(buf[2])<<16 | uint64(buf[3])<<24 |
			uint64(buf[4])<<32 | uint64(buf[5])<<40 |
			uint64(buf[6])<<48 | uint64(buf[7])<<56)
		buf = buf[8:]
	}
	for _, b := range buf {
		n += countByte(b)
	}
	return n
}
