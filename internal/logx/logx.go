// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package logx is a minimal debug logger: silent unless VIMSH_DEBUG=1,
// in which case it appends to $HOME/.vimsh/debug.log. It exists for the
// handful of "should never happen under valid kernel behavior" spots the
// job-control and terminal-raw-mode code can hit, not for routine tracing.
package logx

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu     sync.Mutex
	logger *log.Logger
	opened bool
)

// Enabled reports whether VIMSH_DEBUG=1 is currently set.
func Enabled() bool {
	return os.Getenv("VIMSH_DEBUG") == "1"
}

// open returns the shared logger, opening $HOME/.vimsh/debug.log on first
// use. Returns nil if logging is disabled or the file could not be opened.
func open() *log.Logger {
	if !Enabled() {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if opened {
		return logger
	}
	opened = true

	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}
	dir := filepath.Join(home, ".vimsh")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return logger
}

// Printf writes a formatted line to the debug log when VIMSH_DEBUG=1, and
// is a no-op otherwise.
func Printf(format string, args ...any) {
	if l := open(); l != nil {
		l.Printf(format, args...)
	}
}
