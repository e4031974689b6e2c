// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
	"vimsh.dev/vimsh/shellenv"
	"vimsh.dev/vimsh/syntax"
)

// evalCommand runs a single Command: a simple command (argument expansion,
// alias splicing, builtin-or-external resolution) or a subshell, per
// §4.5.3. It contributes either a status directly to job (builtins) or a
// new member pid (externals and subshells).
func (e *Engine) evalCommand(cmd *syntax.Command, job *jobctl.Job, stdio ioset.Set) {
	if cmd.SubShell != nil {
		src := e.Source[cmd.SubShell.Pos()-1 : cmd.SubShell.End()-1]
		e.forkSubshell(src, job, stdio)
		return
	}

	argv := e.evalArgs(cmd.Args, stdio)
	if len(argv) == 0 {
		return
	}
	argv = e.Env.Splice(argv)

	exe, ok := e.Env.Resolve(argv[0])
	if !ok {
		// An unrecognized token is still dispatched as an external: the
		// execve inside forkExec fails with ENOENT, which forkExec turns
		// into status 127, matching "unknown command" (§7).
		exe = shellenv.Executable{Kind: shellenv.External, Path: argv[0]}
	}

	switch exe.Kind {
	case shellenv.Builtin:
		// A pipeline made only of builtins never forks, so it never picks
		// up a pgid on its own; attribute it to the shell's own group.
		if job.Pgid == 0 {
			job.Pgid = e.Env.ShellPgid
		}
		job.LastStatus = exe.Builtin(e.Env, argv, stdio)
	default:
		e.forkExec(exe.Path, argv, job, stdio)
	}
}
