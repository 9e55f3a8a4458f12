// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package index builds the suffix structures used to answer occurrence
// queries over a sequence: a suffix tree and a Burrows-Wheeler transform
// with backward search.
//
// Structures are built from files. The suffix array is cached by the content
// of the text, first in memory and then in a working directory, so that
// repeated builds over the same sequence do not redo the suffix sorting.
// The tree and the transform are always derived from the text and the
// verified suffix array.
package index

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/VictoriaMetrics/metrics"
	"github.com/cespare/xxhash/v2"
	"github.com/dsnet/golib/unitconv"

	"github.com/dsnet/matchstat/internal"
	"github.com/dsnet/matchstat/internal/logger"
	"github.com/dsnet/matchstat/internal/sais"
	"github.com/dsnet/matchstat/source"
)

var (
	buildsTotal   = metrics.NewCounter(`matchstat_index_builds_total`)
	buildErrors   = metrics.NewCounter(`matchstat_index_build_errors_total`)
	memoryHits    = metrics.NewCounter(`matchstat_index_cache_hits_total{layer="memory"}`)
	diskHits      = metrics.NewCounter(`matchstat_index_cache_hits_total{layer="disk"}`)
	cacheMisses   = metrics.NewCounter(`matchstat_index_cache_misses_total`)
	buildDuration = metrics.NewSummary(`matchstat_index_build_duration_seconds`)
)

// Target names the file a structure is built from and the role and
// direction of the sequence it holds. Role and direction only distinguish
// cache entries; the text itself is always read from Path.
type Target struct {
	Path string
	Role source.Role
	Dir  source.Direction
}

func (t Target) String() string { return fmt.Sprintf("%v/%v", t.Role, t.Dir) }

// Config configures a Builder. The zero value builds every structure from
// scratch without caching.
type Config struct {
	// Dir is the working directory for cached structures.
	// If empty, nothing is cached on disk.
	Dir string

	// Codec is the name of the compression format for cached files.
	// If empty, "none" is used.
	Codec string

	// CacheBytes is the size of the in-memory cache.
	// If zero, there is no in-memory cache.
	CacheBytes int

	Logger logger.Logger
}

// Builder constructs suffix trees and transforms through a shared cache.
// A Builder is safe for concurrent use.
type Builder struct {
	cache cache
	log   logger.Logger
}

// NewBuilder returns a Builder for the given configuration.
func NewBuilder(cfg Config) (*Builder, error) {
	name := cfg.Codec
	if name == "" {
		name = "none"
	}
	cd, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cache codec %q (have %s)",
			internal.ErrPrecondition, name, strings.Join(Codecs(), ", "))
	}
	if cfg.CacheBytes < 0 {
		return nil, fmt.Errorf("%w: negative cache size", internal.ErrPrecondition)
	}
	b := &Builder{cache: cache{dir: cfg.Dir, codec: cd}, log: cfg.Logger}
	if cfg.CacheBytes > 0 {
		b.cache.mem = fastcache.New(cfg.CacheBytes)
	}
	if b.log == nil {
		b.log = logger.Discard
	}
	return b, nil
}

// Reset drops every entry of the in-memory cache.
func (b *Builder) Reset() {
	if b.cache.mem != nil {
		b.cache.mem.Reset()
	}
}

// BuildSuffixTree builds the suffix tree over the contents of t.Path.
func (b *Builder) BuildSuffixTree(t Target) (*SuffixTree, error) {
	st, _, err := b.build(t, true, false)
	return st, err
}

// BuildBWT builds the Burrows-Wheeler transform over the contents of t.Path.
// Any failure leaves no partially built structure behind.
func (b *Builder) BuildBWT(t Target) (*BWT, error) {
	_, bw, err := b.build(t, false, true)
	return bw, err
}

// Build builds both structures over the contents of t.Path from a single
// suffix array.
func (b *Builder) Build(t Target) (*SuffixTree, *BWT, error) {
	return b.build(t, true, true)
}

func (b *Builder) build(t Target, wantTree, wantBWT bool) (st *SuffixTree, bw *BWT, err error) {
	start := time.Now()
	buildsTotal.Inc()
	defer func() {
		buildDuration.UpdateDuration(start)
		if err != nil {
			buildErrors.Inc()
			b.log.Warnf("build %v from %s failed: %v", t, t.Path, err)
		}
	}()

	text, err := loadText(t.Path)
	if err != nil {
		return nil, nil, err
	}
	key := Key{Role: t.Role, Dir: t.Dir, Hash: xxhash.Sum64(text[:len(text)-1])}

	sa, layer := b.cache.loadSA(key, text)
	switch layer {
	case "memory":
		memoryHits.Inc()
	case "disk":
		diskHits.Inc()
	default:
		cacheMisses.Inc()
		sa = make([]int, len(text))
		sais.ComputeSA(text, sa)
		if err := b.cache.storeSA(key, sa); err != nil {
			return nil, nil, err
		}
	}
	b.log.Debugf("suffix array %v: %sB text, cache %q", key,
		unitconv.FormatPrefix(float64(len(text)), unitconv.Base1024, 2), layer)

	if wantTree {
		st = NewSuffixTree(text, sa)
		b.logTree(t, st)
	}
	if wantBWT {
		bw = NewBWT(text, sa)
		b.log.Infof("bwt %v: ok (%d symbols)", t, bw.Len())
	}
	return st, bw, nil
}

func (b *Builder) logTree(t Target, st *SuffixTree) {
	root := st.Root()
	b.log.Infof("suffix tree %v: root degree %d, %d nodes", t, st.Degree(root), st.NumNodes())
	for _, v := range st.Children(root) {
		b.log.Debugf("suffix tree %v: child id %d, first edge char %q", t, st.ID(v), st.Edge(v, 1))
	}
}

// maxTextLen is the longest text that can be indexed. Tree nodes and
// occurrence counts are 32-bit integers, and a tree over n symbols has up to
// 2n nodes.
var maxTextLen = math.MaxInt32/2 - 1

// loadText reads the file at path and appends the sentinel.
func loadText(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	if len(buf) > maxTextLen {
		return nil, fmt.Errorf("%w: %s holds %d bytes, more than the limit of %d",
			internal.ErrPrecondition, path, len(buf), maxTextLen)
	}
	if i := internal.IndexSentinel(buf); i >= 0 {
		return nil, fmt.Errorf("%w: zero byte at offset %d of %s", internal.ErrInvalidInput, i, path)
	}
	return append(buf, internal.Sentinel), nil
}
