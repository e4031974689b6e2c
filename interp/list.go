// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"golang.org/x/term"

	"vimsh.dev/vimsh/internal/logx"
	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
	"vimsh.dev/vimsh/syntax"
)

// evalList walks a List's pipelines left to right, honoring && and ||
// short-circuiting, and returns the status of the last pipeline actually
// run. Each pipeline gets its own Job and its own turn at the foreground,
// per §4.5.1.
func (e *Engine) evalList(list *syntax.List, io ioset.Set) int {
	status := e.evalPipelineAsJob(list.First, io)
	for _, item := range list.Following {
		if e.Env.Exiting {
			break
		}
		switch item.Cond {
		case syntax.IfSuccess:
			if status != 0 {
				continue
			}
		case syntax.IfError:
			if status == 0 {
				continue
			}
		}
		status = e.evalPipelineAsJob(item.Pipe, io)
	}
	if !e.Env.Interactive {
		exitProcess(status)
	}
	return status
}

// evalPipelineAsJob runs one pipeline as a fresh job: it creates the job,
// evaluates the pipeline (which forks every external command into it),
// transfers the terminal to it, waits, and reclaims the terminal.
func (e *Engine) evalPipelineAsJob(pl *syntax.Pipeline, io ioset.Set) int {
	job := jobctl.NewJob(e.Env.Interactive)
	if !e.Env.Interactive {
		job.Pgid = e.Env.ShellPgid
	}

	e.evalPipeline(pl, job, io)

	if len(job.Members) == 0 {
		// The whole pipeline resolved to builtins; nothing was forked, so
		// there is no job to wait for and no foreground hand-off to do.
		return job.LastStatus
	}

	e.Env.Jobs.Add(job)

	var shellTermios *term.State
	if e.Env.Interactive {
		var err error
		if shellTermios, err = jobctl.SaveTermios(e.Env.TermFd); err != nil {
			logx.Printf("evalPipelineAsJob: save shell termios: %v", err)
		}
		if err := jobctl.SetForeground(e.Env.TermFd, job.Pgid); err != nil {
			logx.Printf("evalPipelineAsJob: hand foreground to job %d: %v", job.Pgid, err)
		}
	}

	status, err := e.Env.Jobs.WaitForJob(job.Pgid)
	if err != nil {
		status = job.LastStatus
	}

	if e.Env.Interactive {
		if err := jobctl.SetForeground(e.Env.TermFd, e.Env.ShellPgid); err != nil {
			logx.Printf("evalPipelineAsJob: reclaim foreground for shell %d: %v", e.Env.ShellPgid, err)
		}
		if job.IsStopped() {
			var err error
			if job.SavedTermios, err = jobctl.SaveTermios(e.Env.TermFd); err != nil {
				logx.Printf("evalPipelineAsJob: save stopped job termios: %v", err)
			}
		}
		if err := jobctl.RestoreTermios(e.Env.TermFd, shellTermios); err != nil {
			logx.Printf("evalPipelineAsJob: restore shell termios: %v", err)
		}
	}
	return status
}
