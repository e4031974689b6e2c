// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package startup loads and runs the shell's startup file, a flat list of
// shell lines sourced once before the first prompt.
package startup

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Path returns $HOME/.vimsh/startup, or "" if $HOME is unset.
func Path() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".vimsh", "startup")
}

// Eval reads the startup file named by Path, calling run on each
// non-blank, trimmed line in order. A missing file is not an error: it
// means the shell simply has no startup to run, and Eval returns 0. Any
// other open error is reported as status 1 without calling run.
//
// Eval returns the status of the last line run, or 0 if the file was
// empty or absent, matching the original program's eval_startup.
func Eval(run func(line string) int) int {
	path := Path()
	if path == "" {
		return 0
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		return 1
	}
	defer f.Close()

	status := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		status = run(line)
	}
	return status
}
