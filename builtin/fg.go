// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
	"vimsh.dev/vimsh/shellenv"
)

// Fg implements fg per §4.6: with no argument it resumes the first stopped
// job in the table; with an argument it must name a pgid already tracked.
// Either way it restores the job's saved terminal settings, hands it the
// foreground, clears every member's stopped flag, SIGCONTs the whole
// group, waits for it, then reclaims the foreground for the shell.
func Fg(env *shellenv.Env, argv []string, io ioset.Set) int {
	var job *jobctl.Job
	if len(argv) > 1 {
		pgid, err := strconv.Atoi(argv[1])
		found, ok := false, false
		if err == nil {
			job, ok = env.Jobs.Job(pgid)
			found = ok
		}
		if !found {
			fmt.Fprintln(io.Error, "fg: no such job is found")
			fmt.Fprintln(io.Error, "fg: usage: fg <pgid>")
			return 1
		}
	} else {
		var ok bool
		job, ok = env.Jobs.Stopped()
		if !ok {
			fmt.Fprintln(io.Error, "fg: you have no suspended job")
			return 1
		}
	}

	shellTermios, _ := jobctl.SaveTermios(env.TermFd)
	_ = jobctl.RestoreTermios(env.TermFd, job.SavedTermios)
	job.SavedTermios = nil

	_ = jobctl.SetForeground(env.TermFd, job.Pgid)

	for _, p := range job.Members {
		p.Stopped = false
	}
	_ = unix.Kill(-job.Pgid, unix.SIGCONT)

	status, err := env.Jobs.WaitForJob(job.Pgid)
	if err != nil {
		status = job.LastStatus
	}

	_ = jobctl.SetForeground(env.TermFd, env.ShellPgid)

	if resumed, ok := env.Jobs.Job(job.Pgid); ok && resumed.IsStopped() {
		resumed.SavedTermios, _ = jobctl.SaveTermios(env.TermFd)
		_ = jobctl.RestoreTermios(env.TermFd, shellTermios)
	}

	return status
}
