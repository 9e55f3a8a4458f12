// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/dsnet/matchstat/internal"
	"github.com/dsnet/matchstat/internal/errors"
	"github.com/dsnet/matchstat/internal/sais"
	"github.com/dsnet/matchstat/source"
)

// Key identifies one cached structure. Entries are addressed by the content
// of the indexed text rather than by the identity of the process that built
// them, so separate runs over the same sequence share the cache.
type Key struct {
	Role source.Role
	Dir  source.Direction
	Hash uint64 // xxhash of the text without sentinel
}

func (k Key) String() string {
	return fmt.Sprintf("%v_%v_%016x", k.Role, k.Dir, k.Hash)
}

var errCorrupt error = internal.Error("corrupted cache entry")

// cache is a two level store for suffix arrays: an optional
// in-memory fastcache in front of compressed files in a working directory.
type cache struct {
	dir   string
	codec codec
	mem   *fastcache.Cache
}

func (c *cache) path(k Key, kind string) string {
	return filepath.Join(c.dir, k.String()+"."+kind+c.codec.ext)
}

// loadSA returns the cached suffix array of text, or nil if there is none.
// An entry is only used if it is exactly the suffix array of text, so a
// corrupted or colliding entry is treated as absent.
func (c *cache) loadSA(k Key, text []byte) (sa []int, layer string) {
	if c.mem != nil {
		if buf := c.mem.GetBig(nil, []byte("sa/"+k.String())); len(buf) > 0 {
			if sa, err := decodeSA(buf); err == nil && sais.Verify(text, sa) {
				return sa, "memory"
			}
		}
	}
	if c.dir == "" {
		return nil, ""
	}
	buf, err := c.readFile(c.path(k, "sa"))
	if err != nil {
		return nil, ""
	}
	if sa, err = decodeSA(buf); err != nil || !sais.Verify(text, sa) {
		return nil, ""
	}
	if c.mem != nil {
		c.mem.SetBig([]byte("sa/"+k.String()), buf)
	}
	return sa, "disk"
}

// storeSA writes the suffix array to every configured layer.
func (c *cache) storeSA(k Key, sa []int) error {
	buf := encodeSA(sa)
	if c.mem != nil {
		c.mem.SetBig([]byte("sa/"+k.String()), buf)
	}
	if c.dir == "" {
		return nil
	}
	return c.writeFile(c.path(k, "sa"), buf)
}

func (c *cache) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd, err := c.codec.dec(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return ioutil.ReadAll(rd)
}

// writeFile atomically replaces path with the encoded buf, so concurrent
// readers never observe a partially written entry.
func (c *cache) writeFile(path string, buf []byte) (err error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	f, err := ioutil.TempFile(c.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	bw := bufio.NewWriter(f)
	wr, err := c.codec.enc(bw)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	if _, err = wr.Write(buf); err == nil {
		if err = wr.Close(); err == nil {
			err = bw.Flush()
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	return nil
}

// encodeSA serializes a suffix array as a count followed by the
// little-endian varint encoding of every entry.
func encodeSA(sa []int) []byte {
	buf := make([]byte, 0, binary.MaxVarintLen64*(len(sa)+1))
	buf = binary.AppendUvarint(buf, uint64(len(sa)))
	for _, v := range sa {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return buf
}

func decodeSA(buf []byte) (sa []int, err error) {
	defer errors.Recover(&err)

	next := func() int {
		v, n := binary.Uvarint(buf)
		errors.Assert(n > 0, errCorrupt)
		buf = buf[n:]
		return int(v)
	}
	cnt := next()
	errors.Assert(cnt <= len(buf), errCorrupt) // Every entry takes a byte
	sa = make([]int, cnt)
	seen := make([]bool, cnt)
	for i := range sa {
		sa[i] = next()
		errors.Assert(sa[i] < cnt && !seen[sa[i]], errCorrupt)
		seen[sa[i]] = true
	}
	errors.Assert(len(buf) == 0, errCorrupt)
	return sa, nil
}
