// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package index

import (
	"io"
	"io/ioutil"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz"
)

// Encoder and Decoder wrap a stream with a compression format used for the
// on-disk structure cache.
type (
	Encoder func(io.Writer) (io.WriteCloser, error)
	Decoder func(io.Reader) (io.ReadCloser, error)
)

type codec struct {
	ext string // File extension appended to cache files
	enc Encoder
	dec Decoder
}

var codecs = make(map[string]codec)

// RegisterCodec makes a cache compression format available by name.
func RegisterCodec(name, ext string, enc Encoder, dec Decoder) {
	codecs[name] = codec{ext: ext, enc: enc, dec: dec}
}

// Codecs lists the names of all registered codecs.
func Codecs() []string {
	var names []string
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func init() {
	RegisterCodec("none", "",
		func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
		func(r io.Reader) (io.ReadCloser, error) { return ioutil.NopCloser(r), nil })
	RegisterCodec("flate", ".fl",
		func(w io.Writer) (io.WriteCloser, error) { return flate.NewWriter(w, flate.BestSpeed) },
		func(r io.Reader) (io.ReadCloser, error) { return flate.NewReader(r), nil })
	RegisterCodec("xz", ".xz",
		func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) },
		func(r io.Reader) (io.ReadCloser, error) {
			zr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return ioutil.NopCloser(zr), nil
		})
}
