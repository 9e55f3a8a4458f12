// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command matchstat computes the matching statistics of one sequence
// against another.
//
// The first record of IN is the text s. The query t is the second record of
// IN, or the first record of the file named by --query. The output is one
// line holding the name of t followed by MS[0], MS[1], and so on.
//
// Example usage:
//
//	$ matchstat --tau 2 --cache-codec flate reads.fa
//	read2 3 2 1 0
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "matchstat",
		Usage:     "compute matching statistics of a query sequence against a text",
		ArgsUsage: "IN [OUT]",
		Flags:     flags,
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return run(cfg, stdout, stderr)
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "matchstat: %v\n", err)
		os.Exit(1)
	}
}
