// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package sais implements a linear time suffix array algorithm.
package sais

// The implementation follows the Suffix Array by Induced Sorting (SA-IS)
// methodology by Nong, Zhang, and Chan. The reduced problem of sorted LMS
// names is solved recursively over integer symbols, so the same code serves
// byte texts and the intermediate integer texts.
//
// References:
//	https://sites.google.com/site/yuta256/sais
//	https://ge-nong.googlecode.com/files/Two%20Efficient%20Algorithms%20for%20Linear%20Time%20Suffix%20Array%20Construction.pdf

// ComputeSA computes the suffix array of T and places the result in SA.
// Both T and SA must be the same length, and T must end with a symbol that is
// strictly smaller than every other symbol in T (the sentinel).
func ComputeSA(T []byte, SA []int) {
	if len(SA) != len(T) {
		panic("mismatching sizes")
	}
	if len(T) == 0 {
		return
	}
	computeSA(T, SA, 256)
}

// LCP computes the longest common prefix array of T given its suffix array
// using the algorithm of Kasai et al. The value at index i is the length of
// the longest common prefix of the suffixes SA[i-1] and SA[i]; index 0 is
// always zero.
func LCP(T []byte, SA []int) []int {
	n := len(SA)
	rank := make([]int, n)
	for i, p := range SA {
		rank[p] = i
	}
	lcp := make([]int, n)
	var h int
	for i := 0; i < n; i++ {
		r := rank[i]
		if r == 0 {
			h = 0
			continue
		}
		j := SA[r-1]
		for i+h < n && j+h < n && T[i+h] == T[j+h] {
			h++
		}
		lcp[r] = h
		if h > 0 {
			h--
		}
	}
	return lcp
}

// Verify reports whether SA is the suffix array of T, where T ends with a
// unique smallest sentinel. It runs in linear time by comparing each pair of
// adjacent suffixes on their first symbol and then on the ranks of the
// suffixes that follow.
func Verify(T []byte, SA []int) bool {
	n := len(T)
	if len(SA) != n {
		return false
	}
	if n == 0 {
		return true
	}
	if SA[0] != n-1 {
		return false
	}
	rank := make([]int, n)
	for i := range rank {
		rank[i] = -1
	}
	for i, p := range SA {
		if p < 0 || p >= n || rank[p] >= 0 {
			return false
		}
		rank[p] = i
	}
	for i := 1; i < n; i++ {
		a, b := SA[i-1], SA[i]
		switch {
		case T[a] < T[b]:
		case T[a] > T[b] || a == n-1 || b == n-1:
			return false
		case rank[a+1] > rank[b+1]:
			return false
		}
	}
	return true
}
