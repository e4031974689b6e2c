// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

//go:build unix

package interp

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
)

// forkExec starts path as a new member of job, wiring io as its standard
// streams and placing it in job's process group (or, if job has none yet,
// letting the kernel assign a fresh one from the new pid) per §4.5.3-4.5.5.
//
// Signal dispositions are not reset explicitly here: the shell installs its
// job-control signals with signal.Notify rather than SIG_IGN, and exec(2)
// already resets every caught-but-not-ignored signal to its default action
// in the new image, which is exactly the behavior §4.5.5 asks for.
func (e *Engine) forkExec(path string, argv []string, job *jobctl.Job, io ioset.Set) {
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Env:    e.Env.Environ(),
		Stdin:  io.Input,
		Stdout: io.Output,
		Stderr: io.Error,
		SysProcAttr: &syscall.SysProcAttr{
			Setpgid: true,
			Pgid:    job.Pgid,
		},
	}
	if err := cmd.Start(); err != nil {
		job.LastStatus = execStartStatus(err)
		return
	}
	pid := cmd.Process.Pid
	job.Add(pid)
	// Close the race between this fork and a sibling pipeline stage by
	// setting the pgid again from the parent; whichever of parent and
	// child loses the race gets EACCES/ESRCH, which is expected.
	_ = unix.Setpgid(pid, job.Pgid)
}

// forkSubshell runs the "(" list ")" form as a separate process: the
// binary re-execs itself with -c and the subshell's own source text,
// which the top-level -c path runs non-interactively and then exits with
// its status, matching §4.5.3/§5's fork + reset-dispositions + _exit
// description without requiring an unsafe bare fork inside a Go runtime.
func (e *Engine) forkSubshell(src string, job *jobctl.Job, io ioset.Set) {
	prog, err := selfPath()
	if err != nil {
		job.LastStatus = 126
		return
	}
	cmd := &exec.Cmd{
		Path:   prog,
		Args:   []string{prog, "-c", src},
		Env:    e.Env.Environ(),
		Stdin:  io.Input,
		Stdout: io.Output,
		Stderr: io.Error,
		SysProcAttr: &syscall.SysProcAttr{
			Setpgid: true,
			Pgid:    job.Pgid,
		},
	}
	if err := cmd.Start(); err != nil {
		job.LastStatus = 126
		return
	}
	pid := cmd.Process.Pid
	job.Add(pid)
	_ = unix.Setpgid(pid, job.Pgid)
}

// selfCmd builds the re-exec command used for command/stderr/both
// substitutions: run src non-interactively, in its own process group, with
// stdio replaced by childIO.
func (e *Engine) selfCmd(src string, childIO ioset.Set) (*exec.Cmd, error) {
	prog, err := selfPath()
	if err != nil {
		return nil, err
	}
	return &exec.Cmd{
		Path:   prog,
		Args:   []string{prog, "-c", src},
		Env:    e.Env.Environ(),
		Stdin:  childIO.Input,
		Stdout: childIO.Output,
		Stderr: childIO.Error,
		SysProcAttr: &syscall.SysProcAttr{
			Setpgid: true,
		},
	}, nil
}

var (
	selfPathOnce sync.Once
	selfPathVal  string
	selfPathErr  error
)

func selfPath() (string, error) {
	selfPathOnce.Do(func() {
		selfPathVal, selfPathErr = os.Executable()
	})
	return selfPathVal, selfPathErr
}

func execStartStatus(err error) int {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
		return 127
	}
	return 126
}

// exitProcess terminates the calling process immediately with status,
// without running deferred functions, matching the "_exit(last_status)"
// a non-interactive substitution or subshell child performs once its list
// finishes (§4.5.1).
func exitProcess(status int) {
	os.Exit(status)
}
