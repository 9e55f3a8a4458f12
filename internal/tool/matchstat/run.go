// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/VictoriaMetrics/metrics"

	"github.com/dsnet/matchstat/index"
	"github.com/dsnet/matchstat/internal/logger"
	"github.com/dsnet/matchstat/ms"
	"github.com/dsnet/matchstat/source"
)

// run computes the matching statistics described by cfg and writes them to
// cfg.Out, or to stdout if cfg.Out is empty. Progress is logged to stderr.
func run(cfg config, stdout, stderr io.Writer) error {
	level := logger.LevelWarn
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	log := logger.New(stderr, level)

	s, t, err := readSequences(cfg)
	if err != nil {
		return err
	}
	log.Infof("text %q (%d symbols), query %q (%d symbols)", s.Name, len(s.Seq), t.Name, len(t.Seq))

	nb, err := cfg.cacheBytes()
	if err != nil {
		return err
	}
	b, err := index.NewBuilder(index.Config{
		Dir:        cfg.TmpDir,
		Codec:      cfg.Cache.Codec,
		CacheBytes: nb,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	src, err := source.FromSequences(s.Seq, t.Seq, source.WithBaseDir(cfg.TmpDir))
	if err != nil {
		return err
	}
	st, err := ms.Compute(src, cfg.Tau, ms.WithBuilder(b), ms.WithLogger(log))
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.Out, stdout, t.Name, st, cfg.Bits); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

func readSequences(cfg config) (s, t source.Record, err error) {
	recs, err := source.OpenRecords(cfg.In)
	if err != nil {
		return s, t, err
	}
	if cfg.Query != "" {
		qrecs, err := source.OpenRecords(cfg.Query)
		if err != nil {
			return s, t, err
		}
		if len(recs) < 1 || len(qrecs) < 1 {
			return s, t, fmt.Errorf("need one record in %s and one in %s", cfg.In, cfg.Query)
		}
		return recs[0], qrecs[0], nil
	}
	if len(recs) < 2 {
		return s, t, fmt.Errorf("need two records in %s, got %d", cfg.In, len(recs))
	}
	return recs[0], recs[1], nil
}

func writeOutput(path string, stdout io.Writer, name string, st *ms.Stats, withBits bool) error {
	if path == "" {
		return writeStats(stdout, name, st, withBits)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeStats(f, name, st, withBits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeStats writes the query name followed by the space separated values,
// and optionally the encoded bit vector on a second line.
func writeStats(w io.Writer, name string, st *ms.Stats, withBits bool) error {
	bw := bufio.NewWriter(w)
	buf := []byte(name)
	for _, v := range st.Values() {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	buf = append(buf, '\n')
	bw.Write(buf)
	if withBits {
		fmt.Fprintf(bw, "%v\n", st.Bits())
	}
	return bw.Flush()
}

func writeMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	metrics.WritePrometheus(bw, false)
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
