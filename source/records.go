// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/dsnet/matchstat/internal"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "source: " + string(e) }

var errMalformed error = Error("malformed sequence record")

// Record is one FASTA or FASTQ entry.
type Record struct {
	Name string
	Seq  []byte
	Qual []byte // Nil for FASTA records
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// OpenRecords reads every record from the FASTA or FASTQ file at path.
func OpenRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords reads FASTA ('>') or FASTQ ('@') records from r. Input that is
// gzip or xz compressed is detected by its magic bytes and decompressed.
func ReadRecords(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	rd, err := decompress(br)
	if err != nil {
		return nil, err
	}
	return parseRecords(rd)
}

func decompress(br *bufio.Reader) (io.Reader, error) {
	head, _ := br.Peek(len(magicXZ))
	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", internal.ErrIO, err)
		}
		return zr, nil
	case bytes.HasPrefix(head, magicXZ):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: xz: %v", internal.ErrIO, err)
		}
		return xr, nil
	default:
		return br, nil
	}
}

func parseRecords(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<30)

	var recs []Record
	var cur *Record
	var lineNum int
	next := func() ([]byte, bool) {
		for sc.Scan() {
			lineNum++
			if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
				return line, true
			}
		}
		return nil, false
	}

	line, ok := next()
	for ok {
		switch line[0] {
		case '>':
			recs = append(recs, Record{Name: string(line[1:])})
			cur = &recs[len(recs)-1]
			for line, ok = next(); ok && line[0] != '>'; line, ok = next() {
				cur.Seq = append(cur.Seq, line...)
			}
		case '@':
			recs = append(recs, Record{Name: string(line[1:])})
			cur = &recs[len(recs)-1]
			for line, ok = next(); ok && line[0] != '+'; line, ok = next() {
				cur.Seq = append(cur.Seq, line...)
			}
			if !ok {
				return nil, fmt.Errorf("%w: line %d: missing '+' separator", errMalformed, lineNum)
			}
			for len(cur.Qual) < len(cur.Seq) {
				if line, ok = next(); !ok {
					return nil, fmt.Errorf("%w: line %d: truncated quality string", errMalformed, lineNum)
				}
				cur.Qual = append(cur.Qual, line...)
			}
			if len(cur.Qual) != len(cur.Seq) {
				return nil, fmt.Errorf("%w: line %d: quality length %d != sequence length %d", errMalformed, lineNum, len(cur.Qual), len(cur.Seq))
			}
			line, ok = next()
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", errMalformed, lineNum, line[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	return recs, nil
}
