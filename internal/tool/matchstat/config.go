// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

const (
	defaultTau        = 1
	defaultTmpDir     = "./tmp/"
	defaultCacheCodec = "none"
	defaultCacheSize  = "32Mi"
)

// config is the merged result of the configuration file and the flags.
// Flags that are set explicitly take precedence over the file.
type config struct {
	In, Out string `toml:"-"`

	Tau         int    `toml:"tau"`
	Query       string `toml:"query"`
	TmpDir      string `toml:"tmp_dir"`
	Verbose     bool   `toml:"verbose"`
	Bits        bool   `toml:"bits"`
	MetricsFile string `toml:"metrics_file"`

	Cache struct {
		Codec string `toml:"codec"`
		Size  string `toml:"size"`
	} `toml:"cache"`
}

func defaultConfig() config {
	cfg := config{Tau: defaultTau, TmpDir: defaultTmpDir}
	cfg.Cache.Codec = defaultCacheCodec
	cfg.Cache.Size = defaultCacheSize
	return cfg
}

// readConfigFile overlays the TOML file at path onto cfg.
func readConfigFile(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	md, err := toml.NewDecoder(f).Decode(cfg)
	if err != nil {
		return fmt.Errorf("invalid config file %s: %v", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("invalid config file %s: unknown field %q", path, keys[0].String())
	}
	return nil
}

func loadConfig(c *cli.Context) (config, error) {
	cfg := defaultConfig()
	if path := c.String(flagConfig); path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	switch c.NArg() {
	case 1, 2:
		cfg.In, cfg.Out = c.Args().Get(0), c.Args().Get(1)
	default:
		return cfg, fmt.Errorf("expected arguments IN [OUT], got %d arguments", c.NArg())
	}
	if c.IsSet(flagTau) {
		cfg.Tau = c.Int(flagTau)
	}
	if c.IsSet(flagQuery) {
		cfg.Query = c.String(flagQuery)
	}
	if c.IsSet(flagTmpDir) {
		cfg.TmpDir = c.String(flagTmpDir)
	}
	if c.IsSet(flagVerbose) {
		cfg.Verbose = c.Bool(flagVerbose)
	}
	if c.IsSet(flagBits) {
		cfg.Bits = c.Bool(flagBits)
	}
	if c.IsSet(flagMetricsFile) {
		cfg.MetricsFile = c.String(flagMetricsFile)
	}
	if c.IsSet(flagCacheCodec) {
		cfg.Cache.Codec = c.String(flagCacheCodec)
	}
	if c.IsSet(flagCacheSize) {
		cfg.Cache.Size = c.String(flagCacheSize)
	}
	return cfg, nil
}

// cacheBytes parses the cache size, which may carry an SI or IEC prefix.
func (cfg config) cacheBytes() (int, error) {
	if cfg.Cache.Size == "" {
		return 0, nil
	}
	f, err := unitconv.ParsePrefix(cfg.Cache.Size, unitconv.AutoParse)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid cache size %q", cfg.Cache.Size)
	}
	return int(f), nil
}
