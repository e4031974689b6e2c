// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"vimsh.dev/vimsh/ioset"
)

func TestOverwriteCreatesAndTruncates(t *testing.T) {
	env := newEnv()
	path := filepath.Join(t.TempDir(), "out.txt")
	qt.Assert(t, os.WriteFile(path, []byte("stale"), 0o644), qt.IsNil)

	r, w, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)
	go func() {
		w.WriteString("fresh")
		w.Close()
	}()

	_, _, status := captureOutput(t, func(io ioset.Set) int {
		io.Input = r
		return Overwrite(env, []string{">", path}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)

	got, err := os.ReadFile(path)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(got), qt.Equals, "fresh")
}

func TestAppendAddsToExistingContent(t *testing.T) {
	env := newEnv()
	path := filepath.Join(t.TempDir(), "out.txt")
	qt.Assert(t, os.WriteFile(path, []byte("one\n"), 0o644), qt.IsNil)

	r, w, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)
	go func() {
		w.WriteString("two\n")
		w.Close()
	}()

	_, _, status := captureOutput(t, func(io ioset.Set) int {
		io.Input = r
		return Append(env, []string{">>", path}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)

	got, err := os.ReadFile(path)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(got), qt.Equals, "one\ntwo\n")
}

func TestOverwriteMissingArgReturns1(t *testing.T) {
	env := newEnv()
	_, stderr, status := captureOutput(t, func(io ioset.Set) int {
		return Overwrite(env, []string{">"}, io)
	})
	qt.Assert(t, status, qt.Equals, 1)
	qt.Assert(t, stderr, qt.Contains, "takes 1 argument")
}
