// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dsnet/matchstat/index"
)

const (
	flagTau         = "tau"
	flagQuery       = "query"
	flagTmpDir      = "tmp-dir"
	flagVerbose     = "verbose"
	flagCacheCodec  = "cache-codec"
	flagCacheSize   = "cache-size"
	flagBits        = "bits"
	flagConfig      = "config"
	flagMetricsFile = "metrics-file"
)

var flags = []cli.Flag{
	&cli.IntFlag{
		Name:  flagTau,
		Value: defaultTau,
		Usage: "Minimum number of occurrences in the text for a match to count",
	},
	&cli.StringFlag{
		Name:  flagQuery,
		Usage: "File whose first record is the query. If unset, the query is the second record of IN",
	},
	&cli.StringFlag{
		Name:  flagTmpDir,
		Value: defaultTmpDir,
		Usage: "Directory for materialized sequences and cached suffix structures",
	},
	&cli.BoolFlag{
		Name:    flagVerbose,
		Aliases: []string{"v"},
		Usage:   "Whether to log construction details",
	},
	&cli.StringFlag{
		Name:  flagCacheCodec,
		Value: defaultCacheCodec,
		Usage: fmt.Sprintf("Compression of cached suffix structures; one of %s", strings.Join(index.Codecs(), ", ")),
	},
	&cli.StringFlag{
		Name:  flagCacheSize,
		Value: defaultCacheSize,
		Usage: "Size of the in-memory suffix array cache, such as 64Mi or 1e8. Zero disables it",
	},
	&cli.BoolFlag{
		Name:  flagBits,
		Usage: "Whether to also print the encoded bit vector",
	},
	&cli.StringFlag{
		Name:  flagConfig,
		Usage: "TOML file with default values for the other flags",
	},
	&cli.StringFlag{
		Name:  flagMetricsFile,
		Usage: "File to write metrics to in Prometheus text format",
	},
}
