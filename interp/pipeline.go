// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
	"vimsh.dev/vimsh/syntax"
)

// evalPipeline recursively forks every command in pl into job, wiring a
// close-on-exec pipe between each connected pair per the table in §4.5.2.
// Builtins run synchronously and contribute only their status; externals
// and subshells contribute a member pid.
func (e *Engine) evalPipeline(pl *syntax.Pipeline, job *jobctl.Job, io ioset.Set) {
	if pl.Single() {
		e.evalCommand(pl.Cmd, job, io)
		return
	}

	pipe, err := ioset.NewPipe()
	if err != nil {
		job.LastStatus = 1
		return
	}

	lhsIO, rhsIO := io, io
	rhsIO = rhsIO.WithInput(pipe.Read)
	switch pl.Kind {
	case syntax.PipeStdout:
		lhsIO = lhsIO.WithOutput(pipe.Write)
	case syntax.PipeStderr:
		lhsIO = lhsIO.WithError(pipe.Write)
	case syntax.PipeBoth:
		lhsIO = lhsIO.WithOutput(pipe.Write).WithError(pipe.Write)
	}

	e.evalPipeline(pl.Lhs, job, lhsIO)
	pipe.Write.Close()
	e.evalPipeline(pl.Rhs, job, rhsIO)
	pipe.Read.Close()
}
