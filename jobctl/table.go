// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package jobctl

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Table is the shell's process-group-keyed job table. WaitForJob removes
// the job it waits for once that job has completed; other jobs whose
// members it reaps along the way stay in the table.
type Table struct {
	jobs map[Pgid]*Job
}

// NewTable returns an empty job table.
func NewTable() *Table {
	return &Table{jobs: map[Pgid]*Job{}}
}

// Add inserts job into the table, keyed by its pgid. Add must be called
// only after the job's first member has been forked, since Pgid is fixed
// by Job.Add.
func (t *Table) Add(job *Job) {
	t.jobs[job.Pgid] = job
}

// Remove drops a job from the table, used once fg hands a stopped job
// back to the foreground and it later runs to completion.
func (t *Table) Remove(pgid Pgid) {
	delete(t.jobs, pgid)
}

// Job looks up a job by pgid.
func (t *Table) Job(pgid Pgid) (*Job, bool) {
	j, ok := t.jobs[pgid]
	return j, ok
}

// Stopped returns the first stopped job found, in table iteration order.
// The shell's `fg` builtin uses this when invoked with no argument.
func (t *Table) Stopped() (*Job, bool) {
	for _, j := range t.jobs {
		if j.IsStopped() {
			return j, true
		}
	}
	return nil, false
}

// All returns every job currently in the table, for the `jobs` builtin.
func (t *Table) All() []*Job {
	out := make([]*Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, j)
	}
	return out
}

// findProcess locates the job and process owning pid across the whole
// table: waitpid(-1, ...) can report a pid belonging to any job, not just
// the one the caller is waiting on.
func (t *Table) findProcess(pid Pid) (*Job, *Process, bool) {
	for _, j := range t.jobs {
		if p, ok := j.Members[pid]; ok {
			return j, p, true
		}
	}
	return nil, nil, false
}

// WaitForJob blocks, reaping any child via waitpid(-1, WUNTRACED), updating
// whichever job that pid belongs to, until the job identified by pgid is
// either fully stopped or fully completed. A completed job is removed from
// the table before WaitForJob returns; a stopped job is left in place so
// that fg can resume it later.
func (t *Table) WaitForJob(pgid Pgid) (int, error) {
	job, ok := t.jobs[pgid]
	if !ok {
		return 0, fmt.Errorf("jobctl: no job with pgid %d", pgid)
	}
	for !job.IsCompleted() && !job.IsStopped() {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, err
		}
		ownerJob, proc, ok := t.findProcess(pid)
		if !ok {
			// A grandchild or otherwise untracked pid; ignore it.
			continue
		}
		markProcessStatus(ownerJob, proc, ws)
	}
	status := job.LastStatus
	if job.IsCompleted() {
		t.Remove(pgid)
	}
	return status, nil
}

// markProcessStatus applies one waitpid status report to proc, and updates
// job.LastStatus per §4.5.4: exits and signal deaths both set the
// process's final status; a stop only flags the process, leaving it a
// member of a job that can later be resumed.
func markProcessStatus(job *Job, proc *Process, ws unix.WaitStatus) {
	switch {
	case ws.Exited():
		s := ws.ExitStatus()
		proc.Status = &s
		job.LastStatus = s
	case ws.Signaled():
		s := 128 + int(ws.Signal())
		proc.Status = &s
		job.LastStatus = s
	case ws.Stopped():
		proc.Stopped = true
		job.LastStatus = 128 + int(ws.StopSignal())
	}
}

// SetForeground gives pgid ownership of the controlling terminal reachable
// through fd, so that keyboard-generated signals (SIGINT, SIGTSTP, ...) are
// delivered to it rather than to the shell.
func SetForeground(fd int, pgid Pgid) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
}

// Foreground reports the pgid currently owning the terminal's controlling
// process group.
func Foreground(fd int) (Pgid, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}
