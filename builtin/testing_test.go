// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// captureOutput runs fn with stdout/stderr wired to pipes, returning what
// was written to each once fn returns.
func captureOutput(t *testing.T, fn func(io ioset.Set) int) (stdout, stderr string, status int) {
	t.Helper()
	outR, outW, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)
	errR, errW, err := os.Pipe()
	qt.Assert(t, err, qt.IsNil)

	stdoutCh := drain(outR)
	stderrCh := drain(errR)

	io := ioset.Set{Input: nil, Output: outW, Error: errW}
	status = fn(io)

	outW.Close()
	errW.Close()
	return <-stdoutCh, <-stderrCh, status
}

func drain(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		buf := make([]byte, 0, 256)
		tmp := make([]byte, 256)
		for {
			n, err := r.Read(tmp)
			buf = append(buf, tmp[:n]...)
			if err != nil {
				break
			}
		}
		r.Close()
		ch <- string(buf)
	}()
	return ch
}

func newEnv() *shellenv.Env {
	return shellenv.New(nil)
}
