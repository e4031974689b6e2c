// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package interp implements the command execution engine: it walks a
// parsed [syntax.List], expands each argument, and runs the resulting
// pipeline of commands as child processes under full job control.
package interp

import (
	"fmt"
	"strings"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
	"vimsh.dev/vimsh/syntax"
)

// Engine walks a parsed List against a shellenv.Env. Job table, process
// group, interactivity and terminal fd all live on Env itself (see
// shellenv.Env), the same way the original program bundles all shell state
// into one struct, so that builtins — which only ever receive an *Env —
// can see and mutate them too.
type Engine struct {
	Env *shellenv.Env

	// Source is the text of the List currently being evaluated. SubShell
	// commands and substitutions slice their own source out of it by
	// position, rather than re-printing the AST, so that re-exec'd
	// children see exactly what the user typed.
	Source string
}

// New builds an Engine for the top-level interactive shell, marking env
// interactive and recording its process group and controlling terminal fd.
func New(env *shellenv.Env, shellPgid int) *Engine {
	env.Interactive = true
	env.ShellPgid = shellPgid
	env.TermFd = 0
	return &Engine{Env: env}
}

// Eval parses text and runs it to completion, returning the exit status of
// the last pipeline evaluated. A syntax error is reported on stderr and
// reported as status 127, per §4.1.
func (e *Engine) Eval(text, name string, io ioset.Set) int {
	f, err := syntax.NewParser().Parse(strings.NewReader(text), name)
	if err != nil {
		fmt.Fprintln(io.Error, "Syntax Error")
		return 127
	}
	e.Source = text
	return e.evalList(f.List, io)
}
