// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sais

import (
	"bytes"
	"sort"
	"testing"

	"github.com/dsnet/matchstat/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func naiveSA(t []byte) []int {
	sa := make([]int, len(t))
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return bytes.Compare(t[sa[i]:], t[sa[j]:]) < 0
	})
	return sa
}

func naiveLCP(t []byte, sa []int) []int {
	lcp := make([]int, len(sa))
	for i := 1; i < len(sa); i++ {
		a, b := t[sa[i-1]:], t[sa[i]:]
		for lcp[i] < len(a) && lcp[i] < len(b) && a[lcp[i]] == b[lcp[i]] {
			lcp[i]++
		}
	}
	return lcp
}

func TestComputeSA(t *testing.T) {
	var vectors = []struct {
		input  string
		output []int
	}{
		{input: "\x00", output: []int{0}},
		{input: "a\x00", output: []int{1, 0}},
		{input: "banana\x00", output: []int{6, 5, 3, 1, 0, 4, 2}},
		{input: "AACG\x00", output: []int{4, 0, 1, 2, 3}},
		{input: "GCAA\x00", output: []int{4, 3, 2, 1, 0}},
		{input: "mississippi\x00", output: []int{11, 10, 7, 4, 1, 0, 9, 8, 6, 3, 5, 2}},
	}

	for i, v := range vectors {
		sa := make([]int, len(v.input))
		ComputeSA([]byte(v.input), sa)
		if diff := cmp.Diff(v.output, sa); diff != "" {
			t.Errorf("test %d (%q), suffix array mismatch (-want +got):\n%s", i, v.input, diff)
		}
	}
}

func TestComputeSARandom(t *testing.T) {
	r := testutil.NewRand(0)
	alphabets := []string{"A", "AC", "ACGT", "abcdefghijklmnopqrstuvwxyz"}
	for _, alpha := range alphabets {
		for n := 1; n < 300; n += 7 {
			text := make([]byte, n+1)
			for i := 0; i < n; i++ {
				text[i] = alpha[r.Intn(len(alpha))]
			}
			got := make([]int, len(text))
			ComputeSA(text, got)
			want := naiveSA(text)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("alphabet %q, n=%d, suffix array mismatch (-want +got):\n%s", alpha, n, diff)
			}
			if diff := cmp.Diff(naiveLCP(text, want), LCP(text, got)); diff != "" {
				t.Fatalf("alphabet %q, n=%d, lcp mismatch (-want +got):\n%s", alpha, n, diff)
			}
		}
	}
}

func TestComputeSAPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on mismatching sizes")
		}
	}()
	ComputeSA([]byte("ab\x00"), make([]int, 2))
}

func benchmarkComputeSA(b *testing.B, n int) {
	text := append(testutil.NewRand(0).Repeats("ACGT", n), 0)
	sa := make([]int, len(text))
	b.SetBytes(int64(n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeSA(text, sa)
	}
}

func BenchmarkComputeSA1e4(b *testing.B) { benchmarkComputeSA(b, 1e4) }
func BenchmarkComputeSA1e5(b *testing.B) { benchmarkComputeSA(b, 1e5) }
func BenchmarkComputeSA1e6(b *testing.B) { benchmarkComputeSA(b, 1e6) }

func TestVerify(t *testing.T) {
	r := testutil.NewRand(1)
	for n := 1; n < 200; n += 3 {
		text := append(r.Sequence("ACG", n), 0)
		sa := naiveSA(text)
		if !Verify(text, sa) {
			t.Fatalf("n=%d, Verify rejected a valid suffix array", n)
		}

		i, j := r.Intn(len(sa)), r.Intn(len(sa))
		if i == j {
			continue
		}
		swapped := append([]int(nil), sa...)
		swapped[i], swapped[j] = swapped[j], swapped[i]
		if Verify(text, swapped) {
			t.Errorf("n=%d, Verify accepted swapped ranks %d and %d", n, i, j)
		}
		dup := append([]int(nil), sa...)
		dup[i] = dup[j]
		if Verify(text, dup) {
			t.Errorf("n=%d, Verify accepted a duplicate at rank %d", n, i)
		}
	}

	var vectors = []struct {
		text []byte
		sa   []int
	}{
		{[]byte("A\x00"), []int{1}},
		{[]byte("A\x00"), []int{0, 1}},
		{[]byte("A\x00"), []int{1, 2}},
		{[]byte("AA\x00"), []int{2, 0, 1}},
		{[]byte("A\x00\x00"), []int{2, 1, 0}},
	}
	for _, v := range vectors {
		if Verify(v.text, v.sa) {
			t.Errorf("Verify(%q, %v) = true, want false", v.text, v.sa)
		}
	}
	if !Verify(nil, nil) {
		t.Errorf("Verify(nil, nil) = false, want true")
	}
}
