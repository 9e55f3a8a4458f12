// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsnet/matchstat/internal"
	"github.com/dsnet/matchstat/internal/sais"
	"github.com/dsnet/matchstat/internal/testutil"
	"github.com/dsnet/matchstat/source"
)

func writeTarget(t *testing.T, dir, name string, data []byte) Target {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return Target{Path: path, Role: source.RoleS, Dir: source.Forward}
}

func TestBuilder(t *testing.T) {
	dir := t.TempDir()
	tg := writeTarget(t, dir, "s.txt", []byte("AACG"))

	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	st, err := b.BuildSuffixTree(tg)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Degree(st.Root()))
	assert.Equal(t, []byte("AACG\x00"), st.Text())

	bw, err := b.BuildBWT(tg)
	require.NoError(t, err)
	assert.Equal(t, []byte("G\x00AAC"), bw.Bytes())

	st, bw, err = b.Build(tg)
	require.NoError(t, err)
	assert.Equal(t, st.SA(), bw.SA())
}

func TestBuilderErrors(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(Config{Dir: filepath.Join(dir, "cache")})
	require.NoError(t, err)

	_, err = b.BuildBWT(Target{Path: filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = b.BuildSuffixTree(Target{Path: filepath.Join(dir, "missing.txt")})
	assert.ErrorIs(t, err, internal.ErrNotFound)

	tg := writeTarget(t, dir, "bad.txt", []byte("AC\x00G"))
	bw, err := b.BuildBWT(tg)
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
	assert.Nil(t, bw)

	defer func(n int) { maxTextLen = n }(maxTextLen)
	maxTextLen = 3
	tg = writeTarget(t, dir, "long.txt", []byte("ACGT"))
	st, err := b.BuildSuffixTree(tg)
	assert.ErrorIs(t, err, internal.ErrPrecondition)
	assert.Nil(t, st)
	tg = writeTarget(t, dir, "short.txt", []byte("ACG"))
	_, err = b.BuildSuffixTree(tg)
	assert.NoError(t, err)

	_, err = NewBuilder(Config{Codec: "lz4"})
	assert.ErrorIs(t, err, internal.ErrPrecondition)
	_, err = NewBuilder(Config{CacheBytes: -1})
	assert.ErrorIs(t, err, internal.ErrPrecondition)
}

func TestBuilderMemoryCache(t *testing.T) {
	dir := t.TempDir()
	tg := writeTarget(t, dir, "s.txt", testutil.NewRand(0).Sequence("ACGT", 5000))

	b, err := NewBuilder(Config{CacheBytes: 1 << 20})
	require.NoError(t, err)

	_, bw1, err := b.Build(tg)
	require.NoError(t, err)
	hits := memoryHits.Get()
	_, bw2, err := b.Build(tg)
	require.NoError(t, err)
	assert.Equal(t, hits+1, memoryHits.Get())
	assert.Equal(t, bw1.SA(), bw2.SA())
	assert.Equal(t, bw1.Bytes(), bw2.Bytes())

	// The same content under another role is a different entry.
	misses := cacheMisses.Get()
	tg.Role = source.RoleT
	_, err = b.BuildBWT(tg)
	require.NoError(t, err)
	assert.Equal(t, misses+1, cacheMisses.Get())

	b.Reset()
	misses = cacheMisses.Get()
	_, err = b.BuildBWT(tg)
	require.NoError(t, err)
	assert.Equal(t, misses+1, cacheMisses.Get())
}

func TestBuilderDiskCache(t *testing.T) {
	text := testutil.NewRand(1).Sequence("ACGT", 3000)
	for _, name := range Codecs() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cacheDir := filepath.Join(dir, "cache")
			tg := writeTarget(t, dir, "s.txt", text)

			b1, err := NewBuilder(Config{Dir: cacheDir, Codec: name})
			require.NoError(t, err)
			st1, bw1, err := b1.Build(tg)
			require.NoError(t, err)

			files, err := filepath.Glob(filepath.Join(cacheDir, "s_fwd_*"))
			require.NoError(t, err)
			assert.Len(t, files, 1)

			// A fresh builder has an empty memory layer and must hit the disk.
			b2, err := NewBuilder(Config{Dir: cacheDir, Codec: name, CacheBytes: 1 << 20})
			require.NoError(t, err)
			hits := diskHits.Get()
			st2, bw2, err := b2.Build(tg)
			require.NoError(t, err)
			assert.Equal(t, hits+1, diskHits.Get())
			assert.Equal(t, st1.SA(), st2.SA())
			assert.Equal(t, st1.NumNodes(), st2.NumNodes())
			assert.Equal(t, bw1.Bytes(), bw2.Bytes())

			// The disk hit populated the memory layer.
			hits = memoryHits.Get()
			_, err = b2.BuildBWT(tg)
			require.NoError(t, err)
			assert.Equal(t, hits+1, memoryHits.Get())
		})
	}
}

func TestBuilderCorruptCache(t *testing.T) {
	text := []byte("AACGTTACGAAC")
	full := append(append([]byte(nil), text...), 0)
	sa := make([]int, len(full))
	sais.ComputeSA(full, sa)
	want := NewBWT(full, sa)

	// Each mutation receives the encoded suffix array and returns the
	// bytes to store in its place.
	var vectors = []struct {
		desc   string
		mutate func(*testing.T, []byte) []byte
	}{{
		desc:   "garbage",
		mutate: func(*testing.T, []byte) []byte { return []byte("garbage") },
	}, {
		desc: "swapped entries",
		mutate: func(t *testing.T, b []byte) []byte {
			sa, err := decodeSA(b)
			require.NoError(t, err)
			sa[3], sa[4] = sa[4], sa[3]
			return encodeSA(sa)
		},
	}, {
		desc: "duplicate entry",
		mutate: func(t *testing.T, b []byte) []byte {
			sa, err := decodeSA(b)
			require.NoError(t, err)
			sa[5] = sa[6]
			return encodeSA(sa)
		},
	}, {
		desc: "rotated",
		mutate: func(t *testing.T, b []byte) []byte {
			sa, err := decodeSA(b)
			require.NoError(t, err)
			return encodeSA(append(sa[1:], sa[0]))
		},
	}, {
		desc: "other text",
		mutate: func(*testing.T, []byte) []byte {
			sa := make([]int, len(text)+1)
			sais.ComputeSA(append([]byte("ACGTACGTACGT"), 0), sa)
			return encodeSA(sa)
		},
	}}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			dir := t.TempDir()
			cacheDir := filepath.Join(dir, "cache")
			tg := writeTarget(t, dir, "s.txt", text)
			b, err := NewBuilder(Config{Dir: cacheDir})
			require.NoError(t, err)
			_, err = b.BuildBWT(tg)
			require.NoError(t, err)

			files, err := filepath.Glob(filepath.Join(cacheDir, "*.sa"))
			require.NoError(t, err)
			require.Len(t, files, 1)
			buf, err := os.ReadFile(files[0])
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(files[0], v.mutate(t, buf), 0644))

			misses := cacheMisses.Get()
			st, bw, err := b.Build(tg)
			require.NoError(t, err)
			assert.Equal(t, misses+1, cacheMisses.Get())
			assert.Equal(t, want.Bytes(), bw.Bytes())
			assert.Equal(t, want.SA(), bw.SA())
			assert.Equal(t, want.SA(), st.SA())

			// The rebuilt entry replaced the corrupted one.
			hits := diskHits.Get()
			_, err = b.BuildBWT(tg)
			require.NoError(t, err)
			assert.Equal(t, hits+1, diskHits.Get())
		})
	}
}

func TestDecodeSA(t *testing.T) {
	sa := []int{11, 10, 7, 4, 1, 0, 9, 8, 6, 3, 5, 2}
	got, err := decodeSA(encodeSA(sa))
	require.NoError(t, err)
	assert.Equal(t, sa, got)

	var vectors = [][]byte{
		nil,
		{0x80},                   // Truncated varint
		{0x03, 0x00},             // Too few entries
		{0x01, 0x05},             // Entry out of range
		{0x03, 0x02, 0x01, 0x01}, // Duplicate entry
		{0x01, 0x00, 0x00},
	}
	for _, v := range vectors {
		_, err := decodeSA(v)
		assert.ErrorIs(t, err, errCorrupt, "input %x", v)
	}
}

func benchmarkBuild(b *testing.B, codec string, n int) {
	dir := b.TempDir()
	path := filepath.Join(dir, "s.txt")
	if err := os.WriteFile(path, testutil.NewRand(0).Repeats("ACGT", n), 0644); err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	bd, err := NewBuilder(Config{Dir: filepath.Join(dir, "cache"), Codec: codec})
	if err != nil {
		b.Fatalf("unexpected NewBuilder error: %v", err)
	}
	tg := Target{Path: path, Role: source.RoleS, Dir: source.Forward}
	if _, err := bd.BuildBWT(tg); err != nil { // Populate the disk cache
		b.Fatalf("unexpected error: %v", err)
	}

	b.SetBytes(int64(n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bd.BuildBWT(tg); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkBuildNone1e5(b *testing.B)  { benchmarkBuild(b, "none", 1e5) }
func BenchmarkBuildNone1e6(b *testing.B)  { benchmarkBuild(b, "none", 1e6) }
func BenchmarkBuildFlate1e5(b *testing.B) { benchmarkBuild(b, "flate", 1e5) }
func BenchmarkBuildFlate1e6(b *testing.B) { benchmarkBuild(b, "flate", 1e6) }
func BenchmarkBuildXZ1e5(b *testing.B)    { benchmarkBuild(b, "xz", 1e5) }
func BenchmarkBuildXZ1e6(b *testing.B)    { benchmarkBuild(b, "xz", 1e6) }
