// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sais

type symbol interface {
	~byte | ~int
}

func computeSA[T symbol](s []T, sa []int, k int) {
	n := len(s)
	if n == 1 {
		sa[0] = 0
		return
	}

	// Classify each suffix as S-type (true) or L-type (false).
	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		t[i] = s[i] < s[i+1] || (s[i] == s[i+1] && t[i+1])
	}
	isLMS := func(i int) bool { return i > 0 && t[i] && !t[i-1] }

	// Stage 1: sort all LMS substrings.
	bkt := make([]int, k)
	getBuckets(s, bkt, true)
	for i := range sa {
		sa[i] = -1
	}
	for i := 1; i < n; i++ {
		if isLMS(i) {
			c := int(s[i])
			bkt[c]--
			sa[bkt[c]] = i
		}
	}
	induceL(s, sa, t, bkt)
	induceS(s, sa, t, bkt)

	// Compact the sorted LMS substrings into the front of sa.
	var n1 int
	for i := 0; i < n; i++ {
		if isLMS(sa[i]) {
			sa[n1] = sa[i]
			n1++
		}
	}

	// Name the LMS substrings. Two adjacent substrings share a name only if
	// they are equal in both symbols and types.
	for i := n1; i < n; i++ {
		sa[i] = -1
	}
	name, prev := 0, -1
	for i := 0; i < n1; i++ {
		pos := sa[i]
		diff := false
		for d := 0; d < n; d++ {
			if prev == -1 || s[pos+d] != s[prev+d] || t[pos+d] != t[prev+d] {
				diff = true
				break
			} else if d > 0 && (isLMS(pos+d) || isLMS(prev+d)) {
				break
			}
		}
		if diff {
			name++
			prev = pos
		}
		sa[n1+pos/2] = name - 1
	}
	for i, j := n-1, n-1; i >= n1; i-- {
		if sa[i] >= 0 {
			sa[j] = sa[i]
			j--
		}
	}

	// Stage 2: solve the reduced problem, recursing if names are not unique.
	s1, sa1 := sa[n-n1:], sa[:n1]
	if name < n1 {
		computeSA(s1, sa1, name)
	} else {
		for i := 0; i < n1; i++ {
			sa1[s1[i]] = i
		}
	}

	// Stage 3: induce the final suffix array from the sorted LMS suffixes.
	getBuckets(s, bkt, true)
	for i, j := 1, 0; i < n; i++ {
		if isLMS(i) {
			s1[j] = i
			j++
		}
	}
	for i := 0; i < n1; i++ {
		sa1[i] = s1[sa1[i]]
	}
	for i := n1; i < n; i++ {
		sa[i] = -1
	}
	for i := n1 - 1; i >= 0; i-- {
		j := sa[i]
		sa[i] = -1
		c := int(s[j])
		bkt[c]--
		sa[bkt[c]] = j
	}
	induceL(s, sa, t, bkt)
	induceS(s, sa, t, bkt)
}

// getBuckets computes the start (or end, if end is set) of every bucket.
func getBuckets[T symbol](s []T, bkt []int, end bool) {
	for i := range bkt {
		bkt[i] = 0
	}
	for _, c := range s {
		bkt[int(c)]++
	}
	var sum int
	for i, v := range bkt {
		sum += v
		if end {
			bkt[i] = sum
		} else {
			bkt[i] = sum - v
		}
	}
}

func induceL[T symbol](s []T, sa []int, t []bool, bkt []int) {
	getBuckets(s, bkt, false)
	for i := 0; i < len(sa); i++ {
		if j := sa[i] - 1; j >= 0 && !t[j] {
			c := int(s[j])
			sa[bkt[c]] = j
			bkt[c]++
		}
	}
}

func induceS[T symbol](s []T, sa []int, t []bool, bkt []int) {
	getBuckets(s, bkt, true)
	for i := len(sa) - 1; i >= 0; i-- {
		if j := sa[i] - 1; j >= 0 && t[j] {
			c := int(s[j])
			bkt[c]--
			sa[bkt[c]] = j
		}
	}
}
