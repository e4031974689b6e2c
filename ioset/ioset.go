// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package ioset carries the input/output/error file descriptor triple that
// flows through the execution engine: every command, pipeline stage, and
// subshell is handed one, and builtins and redirections replace individual
// members of it without touching the others.
package ioset

import (
	"os"

	"golang.org/x/sys/unix"
)

// Set is the (stdin, stdout, stderr) triple a command runs with. It is
// small and copied by value; callers derive a new Set with one member
// swapped via WithInput/WithOutput/WithError rather than mutating a shared
// one, so a pipeline stage can never see a sibling's redirection.
type Set struct {
	Input  *os.File
	Output *os.File
	Error  *os.File
}

// Stdio returns the process's own standard streams.
func Stdio() Set {
	return Set{Input: os.Stdin, Output: os.Stdout, Error: os.Stderr}
}

func (s Set) WithInput(f *os.File) Set  { s.Input = f; return s }
func (s Set) WithOutput(f *os.File) Set { s.Output = f; return s }
func (s Set) WithError(f *os.File) Set  { s.Error = f; return s }

// Pipe holds both ends of a close-on-exec pipe, used to connect two pipeline
// stages so that a write to one stage's stdout is read by the next stage's
// stdin without ever touching a regular file.
type Pipe struct {
	Read  *os.File
	Write *os.File
}

// NewPipe opens a pipe and marks both ends close-on-exec, so that a stage
// that never reads or writes its far end (e.g. the read end in the writer
// process) does not leak it into unrelated children.
func NewPipe() (Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return Pipe{}, err
	}
	if err := setCloexec(r); err != nil {
		r.Close()
		w.Close()
		return Pipe{}, err
	}
	if err := setCloexec(w); err != nil {
		r.Close()
		w.Close()
		return Pipe{}, err
	}
	return Pipe{Read: r, Write: w}, nil
}

func setCloexec(f *os.File) error {
	flags, err := unix.FcntlInt(f.Fd(), unix.F_GETFD, 0)
	if err != nil {
		return err
	}
	_, err = unix.FcntlInt(f.Fd(), unix.F_SETFD, flags|unix.FD_CLOEXEC)
	return err
}
