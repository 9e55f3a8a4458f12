// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package source owns the reference and query sequences of a matching
// statistics computation and materializes them, together with their
// reversals, as raw byte files that the suffix structure builder reads.
//
// A Source only borrows in-memory sequences. The caller must not mutate a
// sequence while a computation holds the Source.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/matchstat/internal"
)

// Role names one of the two sequences of a computation.
type Role int

const (
	RoleS Role = 0 // Reference sequence
	RoleT Role = 1 // Query sequence
)

// Roles lists both roles in materialization order.
var Roles = [...]Role{RoleS, RoleT}

func (r Role) String() string {
	switch r {
	case RoleS:
		return "s"
	case RoleT:
		return "t"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Direction selects the forward or the character-reversed view.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "rev"
	}
	return "fwd"
}

// DefaultBaseDir is the base directory used by FromSequences unless
// WithBaseDir overrides it.
const DefaultBaseDir = "tmp"

type entry struct {
	seq     []byte // Borrowed or loaded forward sequence
	rev     []byte // Lazily computed reversal of seq
	loaded  bool   // Whether seq is valid
	file    string // Forward filename relative to the base directory
	fileRev string // Reverse filename relative to the base directory
}

// Source is a uniform handle over the two sequences of a computation.
type Source struct {
	dir string
	s   entry
	t   entry
}

// Option configures a Source.
type Option func(*Source)

// WithBaseDir sets the directory that sequences are materialized into.
func WithBaseDir(dir string) Option {
	return func(src *Source) { src.dir = dir }
}

// FromSequences returns a Source over two in-memory sequences. Both must be
// non-empty. Nothing is written until Materialize is called.
func FromSequences(s, t []byte, opts ...Option) (*Source, error) {
	if len(s) == 0 || len(t) == 0 {
		return nil, fmt.Errorf("%w: empty sequence (|s|=%d, |t|=%d)", internal.ErrPrecondition, len(s), len(t))
	}
	src := &Source{dir: DefaultBaseDir}
	for _, opt := range opts {
		opt(src)
	}
	if err := src.absDir(); err != nil {
		return nil, err
	}
	src.s = entry{seq: s, loaded: true}
	src.t = entry{seq: t, loaded: true}
	return src, nil
}

// FromFiles returns a Source over two existing files in baseDir. The file
// contents are not read until they are needed.
func FromFiles(baseDir, file1, file2 string) (*Source, error) {
	src := &Source{dir: baseDir}
	if err := src.absDir(); err != nil {
		return nil, err
	}
	for _, f := range []string{file1, file2} {
		if _, err := os.Stat(filepath.Join(src.dir, f)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, filepath.Join(src.dir, f))
			}
			return nil, fmt.Errorf("%w: %v", internal.ErrIO, err)
		}
	}
	src.s = entry{file: file1}
	src.t = entry{file: file2}
	return src, nil
}

func (src *Source) absDir() error {
	dir, err := filepath.Abs(src.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	src.dir = dir
	return nil
}

func (src *Source) entry(r Role) *entry {
	switch r {
	case RoleS:
		return &src.s
	case RoleT:
		return &src.t
	default:
		panic(fmt.Sprintf("source: invalid role %d", int(r)))
	}
}

// BaseDir reports the absolute base directory.
func (src *Source) BaseDir() string { return src.dir }

// Path reports the absolute path of the file holding the given view, or the
// empty string if the view has not been materialized yet.
func (src *Source) Path(r Role, d Direction) string {
	e := src.entry(r)
	name := e.file
	if d == Reverse {
		name = e.fileRev
	}
	if name == "" {
		return ""
	}
	return filepath.Join(src.dir, name)
}

// Files reports the absolute forward paths of s and t.
func (src *Source) Files() (string, string) {
	return src.Path(RoleS, Forward), src.Path(RoleT, Forward)
}

// Len reports the length of the sequence with role r.
func (src *Source) Len(r Role) (int, error) {
	b, err := src.Bytes(r, Forward)
	return len(b), err
}

// Bytes returns the forward or reversed view of a sequence. File backed
// sequences are read on first use. The reversal is computed once.
func (src *Source) Bytes(r Role, d Direction) ([]byte, error) {
	e := src.entry(r)
	if !e.loaded {
		b, err := readFile(filepath.Join(src.dir, e.file))
		if err != nil {
			return nil, err
		}
		e.seq, e.loaded = b, true
	}
	if d == Forward {
		return e.seq, nil
	}
	if e.rev == nil {
		e.rev = internal.Reverse(e.seq)
	}
	return e.rev, nil
}

// Sequences returns the forward views of s and t.
func (src *Source) Sequences() (s, t []byte, err error) {
	if s, err = src.Bytes(RoleS, Forward); err != nil {
		return nil, nil, err
	}
	if t, err = src.Bytes(RoleT, Forward); err != nil {
		return nil, nil, err
	}
	return s, t, nil
}

// Materialize writes every view that has no file yet into the base
// directory, creating the directory if needed. In-memory sequences are
// written as s.txt, s_rev.txt, t.txt, and t_rev.txt. File backed sequences
// only gain a reverse file next to the original. Calling Materialize again
// is a no-op.
func (src *Source) Materialize() error {
	if err := os.MkdirAll(src.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	for _, r := range Roles {
		e := src.entry(r)
		if e.file != "" && e.fileRev != "" {
			continue
		}
		file, fileRev := e.file, e.fileRev
		if file == "" {
			file = r.String() + ".txt"
			if err := writeFile(filepath.Join(src.dir, file), e.seq); err != nil {
				return err
			}
		}
		if fileRev == "" {
			fileRev = reverseName(file)
			rev, err := src.Bytes(r, Reverse)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(src.dir, fileRev), rev); err != nil {
				return err
			}
		}
		e.file, e.fileRev = file, fileRev
	}
	return nil
}

// reverseName derives the reverse filename: "s.txt" becomes "s_rev.txt".
func reverseName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_rev" + ext
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	return b, nil
}

// writeFile stores buf as raw bytes with no header and no sentinel.
func writeFile(path string, buf []byte) error {
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrIO, err)
	}
	return nil
}
