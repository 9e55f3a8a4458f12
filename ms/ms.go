// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ms computes the matching statistics of a query sequence t against
// a text sequence s.
//
// The matching statistic MS[i] is the length of the longest prefix of t[i:]
// that occurs at least tau times in s. The result is stored as a packed bit
// vector of 2*len(t) bits from which every value is recovered with a select
// query (see package bitvec).
//
// The computation indexes s and its reversal once each with a suffix tree and
// a Burrows-Wheeler transform, and then makes two passes over t: a right to
// left pass over the forward structures that marks where consecutive values
// decrease by exactly one, and a left to right pass over the reverse
// structures that writes the encoding.
package ms

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/dsnet/matchstat/bitvec"
	"github.com/dsnet/matchstat/index"
	"github.com/dsnet/matchstat/internal"
	"github.com/dsnet/matchstat/internal/logger"
	"github.com/dsnet/matchstat/source"
)

// Errors reported by Compute. Use errors.Is to test for them.
var (
	ErrPrecondition = internal.ErrPrecondition
	ErrNotFound     = internal.ErrNotFound
	ErrInvalidInput = internal.ErrInvalidInput
	ErrCapacity     = internal.ErrCapacity
	ErrIO           = internal.ErrIO
	ErrOutOfRange   = internal.ErrOutOfRange
)

var (
	computeTotal    = metrics.NewCounter(`matchstat_ms_computations_total`)
	computeErrors   = metrics.NewCounter(`matchstat_ms_computation_errors_total`)
	positionsTotal  = metrics.NewCounter(`matchstat_ms_positions_total`)
	computeDuration = metrics.NewSummary(`matchstat_ms_duration_seconds`)
)

// Config configures a computation.
type Config struct {
	// BaseDir is the directory that ComputeBytes materializes sequences into.
	BaseDir string

	// Index configures the suffix structure builder used when no Builder is
	// supplied with WithBuilder. If Index.Dir is empty, structures are
	// cached in the base directory of the source. An in-memory cache only
	// pays off when a Builder is shared across computations.
	Index index.Config
}

// DefaultConfig returns the configuration used when WithConfig is absent.
func DefaultConfig() Config {
	return Config{
		BaseDir: source.DefaultBaseDir,
		Index:   index.Config{Codec: "none"},
	}
}

type options struct {
	cfg     Config
	builder *index.Builder
	log     logger.Logger
}

// Option configures Compute and ComputeBytes.
type Option func(*options)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithBuilder supplies the suffix structure builder, which allows several
// computations to share one cache.
func WithBuilder(b *index.Builder) Option {
	return func(o *options) { o.builder = b }
}

// WithLogger sets the sink for progress messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{cfg: DefaultConfig(), log: logger.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ComputeBytes computes the matching statistics of t against s.
// An empty t yields empty statistics without indexing s; otherwise the
// sequences are materialized into the configured base directory.
func ComputeBytes(s, t []byte, tau int, opts ...Option) (*Stats, error) {
	if tau < 1 {
		return nil, fmt.Errorf("%w: tau = %d", ErrPrecondition, tau)
	}
	if len(t) == 0 {
		return newStats(bitvec.New(0), bitvec.New(0)), nil
	}
	o := newOptions(opts)
	src, err := source.FromSequences(s, t, source.WithBaseDir(o.cfg.BaseDir))
	if err != nil {
		return nil, err
	}
	return compute(src, tau, o)
}

// Compute computes the matching statistics of the T sequence of src against
// its S sequence. The sequences must not be modified until Compute returns.
func Compute(src *source.Source, tau int, opts ...Option) (*Stats, error) {
	if tau < 1 {
		return nil, fmt.Errorf("%w: tau = %d", ErrPrecondition, tau)
	}
	return compute(src, tau, newOptions(opts))
}

func compute(src *source.Source, tau int, o options) (st *Stats, err error) {
	start := time.Now()
	computeTotal.Inc()
	defer func() {
		computeDuration.UpdateDuration(start)
		if err != nil {
			computeErrors.Inc()
			o.log.Errorf("matching statistics failed: %v", err)
		}
	}()

	t, err := src.Bytes(source.RoleT, source.Forward)
	if err != nil {
		return nil, err
	}
	if len(t) == 0 {
		return newStats(bitvec.New(0), bitvec.New(0)), nil
	}
	if err := src.Materialize(); err != nil {
		return nil, err
	}

	b := o.builder
	if b == nil {
		cfg := o.cfg.Index
		if cfg.Dir == "" {
			cfg.Dir = src.BaseDir()
		}
		if cfg.Logger == nil {
			cfg.Logger = o.log
		}
		if b, err = index.NewBuilder(cfg); err != nil {
			return nil, err
		}
	}

	fwd, err := buildPair(b, src, source.Forward)
	if err != nil {
		return nil, err
	}
	rev, err := buildPair(b, src, source.Reverse)
	if err != nil {
		return nil, err
	}
	o.log.Infof("computing matching statistics: |s|=%d |t|=%d tau=%d", fwd.bwt.Len()-1, len(t), tau)

	e := &engine{fwd: fwd, rev: rev, tau: tau, t: t}
	runs := e.markRuns()
	bits, err := e.encode(runs)
	if err != nil {
		return nil, err
	}
	st = newStats(bits, runs)
	if internal.Debug {
		verify(st, t)
	}
	positionsTotal.Add(len(t))
	o.log.Infof("matching statistics done in %v", time.Since(start))
	return st, nil
}

func buildPair(b *index.Builder, src *source.Source, d source.Direction) (structures, error) {
	tree, bwt, err := b.Build(index.Target{Path: src.Path(source.RoleS, d), Role: source.RoleS, Dir: d})
	if err != nil {
		return structures{}, err
	}
	return structures{tree: tree, bwt: bwt}, nil
}
