// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package jobctl tracks the child processes spawned by a pipeline as a
// single job sharing a process group, and the status transitions a process
// makes between running, stopped and exited.
package jobctl

import "golang.org/x/term"

// Pid is a process id; Pgid is a process group id, equal to the pid of its
// leader.
type Pid = int
type Pgid = int

// Process is one member of a Job. Status is nil while the process is still
// running or merely stopped; it is set exactly once, when the process
// exits or is killed by a signal.
type Process struct {
	Pid     Pid
	Stopped bool
	Status  *int
}

// Exited reports whether the process has a final status.
func (p *Process) Exited() bool { return p.Status != nil }

// Job is a pipeline's worth of processes sharing a process group. Pgid is
// zero until it is set, either directly by the caller or by the first Add,
// which fixes it to that child's pid.
type Job struct {
	Interactive  bool
	Pgid         Pgid
	Members      map[Pid]*Process
	LastStatus   int
	SavedTermios *term.State
}

// NewJob starts an empty job. Interactive records whether the job was
// started by an interactive shell; the fork+exec path in interp does not
// consult it.
func NewJob(interactive bool) *Job {
	return &Job{Interactive: interactive, Members: map[Pid]*Process{}}
}

// Add registers pid as a running member of the job. The first call also
// fixes the job's pgid, mirroring setpgid(pid, pid) in the first child.
func (j *Job) Add(pid Pid) {
	if j.Pgid == 0 {
		j.Pgid = pid
	}
	j.Members[pid] = &Process{Pid: pid}
}

// IsCompleted reports whether every member process has exited or been
// killed by a signal.
func (j *Job) IsCompleted() bool {
	for _, p := range j.Members {
		if !p.Exited() {
			return false
		}
	}
	return true
}

// IsStopped reports whether no member is still running and at least one
// member is stopped (not exited). A completed job is not "stopped".
func (j *Job) IsStopped() bool {
	anyStopped := false
	for _, p := range j.Members {
		if !p.Exited() && !p.Stopped {
			return false // still running
		}
		if p.Stopped && !p.Exited() {
			anyStopped = true
		}
	}
	return anyStopped
}
