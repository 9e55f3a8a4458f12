// Copyright 2017, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package logger provides the leveled diagnostic sink used by the suffix
// structure builder, the matching statistics engine, and the command line
// tool.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger is the sink that components report progress and diagnostics to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Level is the minimum severity that a Std logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "info" or "ERROR".
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported logger level %q; supported values are: %s", s, strings.Join(levelNames[:], ", "))
}

// Discard drops every message.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(string, ...interface{}) {}
func (discard) Infof(string, ...interface{})  {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}

// Std writes one line per message to an io.Writer. Level tags are colored
// when the writer is a terminal.
type Std struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	tags  [len(levelNames)]string
	now   func() time.Time
}

// New returns a logger writing messages of at least the given level to w.
func New(w io.Writer, level Level) *Std {
	l := &Std{w: w, level: level, now: time.Now}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	attrs := [...]color.Attribute{color.FgCyan, color.FgGreen, color.FgYellow, color.FgRed}
	for i, name := range levelNames {
		c := color.New(attrs[i])
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		l.tags[i] = c.Sprintf("%-5s", name)
	}
	return l
}

func (l *Std) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Std) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Std) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Std) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

func (l *Std) logf(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	ts := l.now().UTC().Format("2006-01-02T15:04:05.000Z")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s %s\n", ts, l.tags[level], strings.TrimRight(msg, "\n"))
}
