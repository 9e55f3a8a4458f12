// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsnet/matchstat/internal/testutil"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"matchstat"}, args...))
	return stdout.String(), err
}

func TestApp(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp")
	in := writeFile(t, dir, "pair.fa", ">ref\nAACG\n>query\nAACT\n")

	out, err := runApp(t, "--tmp-dir", tmp, in)
	require.NoError(t, err)
	assert.Equal(t, "query 3 2 1 0\n", out)

	out, err = runApp(t, "--tmp-dir", tmp, "--bits", "--cache-codec", "xz", in)
	require.NoError(t, err)
	assert.Equal(t, "query 3 2 1 0\n00011110\n", out)

	out, err = runApp(t, "--tmp-dir", tmp, "--tau", "5", in)
	require.NoError(t, err)
	assert.Equal(t, "query 0 0 0 0\n", out)

	for _, name := range []string{"s.txt", "s_rev.txt", "t.txt", "t_rev.txt"} {
		assert.FileExists(t, filepath.Join(tmp, name))
	}
}

func TestAppQueryAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "ref.fq", "@ref\nAACG\n+\nIIII\n")
	query := writeFile(t, dir, "query.fa", ">q1\nAACG\n>q2\nTTTT\n")
	outPath := filepath.Join(dir, "out.txt")
	metricsPath := filepath.Join(dir, "metrics.txt")

	out, err := runApp(t, "--tmp-dir", filepath.Join(dir, "tmp"), "--query", query,
		"--metrics-file", metricsPath, in, outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "q1 4 3 2 1\n", string(got))

	got, err = os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(got), "matchstat_ms_computations_total")
	assert.Contains(t, string(got), "matchstat_index_builds_total")
}

func TestAppConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "pair.fa", ">ref\nAACGAACG\n>query\nAACT\n")
	cfgPath := writeFile(t, dir, "matchstat.toml", strings.Join([]string{
		`tau = 2`,
		`tmp_dir = "` + filepath.ToSlash(filepath.Join(dir, "tmp")) + `"`,
		`[cache]`,
		`codec = "flate"`,
		`size = "1Mi"`,
	}, "\n"))

	out, err := runApp(t, "--config", cfgPath, in)
	require.NoError(t, err)
	assert.Equal(t, "query 3 2 1 0\n", out)

	// Flags override the file.
	out, err = runApp(t, "--config", cfgPath, "--tau", "3", in)
	require.NoError(t, err)
	assert.Equal(t, "query 1 1 0 0\n", out)

	bad := writeFile(t, dir, "bad.toml", "tau = 1\ncolour = true\n")
	_, err = runApp(t, "--config", bad, in)
	assert.ErrorContains(t, err, "unknown field")
}

func TestAppErrors(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp")
	one := writeFile(t, dir, "one.fa", ">ref\nAACG\n")
	pair := writeFile(t, dir, "pair.fa", ">ref\nAACG\n>query\nAACT\n")

	_, err := runApp(t, "--tmp-dir", tmp)
	assert.Error(t, err)
	_, err = runApp(t, "--tmp-dir", tmp, one)
	assert.ErrorContains(t, err, "need two records")
	_, err = runApp(t, "--tmp-dir", tmp, filepath.Join(dir, "missing.fa"))
	assert.Error(t, err)
	_, err = runApp(t, "--tmp-dir", tmp, "--tau", "0", pair)
	assert.Error(t, err)
	_, err = runApp(t, "--tmp-dir", tmp, "--cache-codec", "lz4", pair)
	assert.Error(t, err)
	_, err = runApp(t, "--tmp-dir", tmp, "--cache-size", "lots", pair)
	assert.ErrorContains(t, err, "invalid cache size")
}

func TestCacheBytes(t *testing.T) {
	var vectors = []struct {
		size string
		want int
		fail bool
	}{
		{size: "", want: 0},
		{size: "0", want: 0},
		{size: "1e6", want: 1000000},
		{size: "64Mi", want: 64 << 20},
		{size: "2k", want: 2000},
		{size: "-1", fail: true},
		{size: "big", fail: true},
	}
	for _, v := range vectors {
		cfg := defaultConfig()
		cfg.Cache.Size = v.size
		got, err := cfg.cacheBytes()
		if v.fail {
			assert.Error(t, err, "size %q", v.size)
			continue
		}
		assert.NoError(t, err, "size %q", v.size)
		assert.Equal(t, v.want, got, "size %q", v.size)
	}
}

func TestAppTestdata(t *testing.T) {
	out, err := runApp(t, "--tmp-dir", filepath.Join(t.TempDir(), "tmp"), "--tau", "2", "../../../testdata/sample.fa")
	require.NoError(t, err)
	assert.Equal(t, "read_demo 27 26 25 24 23 22 21 20 19 18 17 16 15 14 13 12 11 10 9 8 7 6 5 4 3 3 2 2 2 3 4 3 2 2 2 1\n", out)
}

func TestWriteStatsError(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "pair.fa", ">ref\nAACG\n>query\nAACT\n")
	cfg := defaultConfig()
	cfg.In, cfg.TmpDir = in, filepath.Join(dir, "tmp")
	var stderr bytes.Buffer
	w := &testutil.BuggyWriter{W: new(bytes.Buffer), N: 4, Err: io.ErrShortWrite}
	assert.ErrorIs(t, run(cfg, w, &stderr), io.ErrShortWrite)
}
