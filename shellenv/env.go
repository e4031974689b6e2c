// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package shellenv holds the mutable state shared by every command the
// shell runs: exported and shell-only variables, argv[0] aliases, and the
// PATH-scanned index of external and builtin commands.
package shellenv

import (
	"strings"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/jobctl"
)

// BuiltinFunc is a builtin's entry point. It receives the environment it
// runs under, its own argv (including argv[0]), and the I/O triple it
// should read and write, and returns an exit status.
type BuiltinFunc func(env *Env, argv []string, io ioset.Set) int

// ExecutableKind distinguishes how a resolved command is run.
type ExecutableKind int

const (
	External ExecutableKind = iota
	Builtin
)

// Executable is what a token in argv[0] position resolves to.
type Executable struct {
	Kind    ExecutableKind
	Path    string // External: absolute path to the binary
	Builtin BuiltinFunc
}

// Env is the shell's process-lifetime state: variables, aliases, and the
// command index. It has no owning goroutine and is not safe for concurrent
// mutation, matching the single-threaded execution engine that holds it.
type Env struct {
	Aliases   map[string][]string
	EnvVars   map[string]string
	ShellVars map[string]string
	commands  map[string]Executable

	// Jobs, Interactive, ShellPgid and TermFd are the rest of the state
	// the original program bundles into one Shell struct alongside its
	// variables and command index; builtins such as cd/fg/jobs/exit need
	// them and BuiltinFunc only carries an *Env, so they live here rather
	// than on a second, builtin-inaccessible context type.
	Jobs        *jobctl.Table
	Interactive bool
	ShellPgid   int
	TermFd      int

	// CdUndoStack and CdRedoStack back "cd -"/"cd +" (§4.6): each holds
	// the working directory cd last left, most recent last.
	CdUndoStack []string
	CdRedoStack []string

	// Exiting and ExitCode let the exit builtin ask the engine to stop
	// running further pipelines without calling os.Exit from inside a
	// builtin, so the top-level loop can still restore terminal state on
	// its way out.
	Exiting  bool
	ExitCode int
}

// New seeds Env from the process's inherited environment: every entry
// becomes an exported env_var, per spec.md's "on startup, exported env
// inherited from parent becomes env_vars".
func New(environ []string) *Env {
	e := &Env{
		Aliases:   map[string][]string{},
		EnvVars:   map[string]string{},
		ShellVars: map[string]string{},
		commands:  map[string]Executable{},
		Jobs:      jobctl.NewTable(),
	}
	for _, kv := range environ {
		if name, val, ok := strings.Cut(kv, "="); ok {
			e.EnvVars[name] = val
		}
	}
	return e
}

// Lookup resolves a $name expansion: shell_vars first, then env_vars, else
// the empty string. It never returns "variable unset" as a distinct case,
// matching the testable property in spec.md §8.
func (e *Env) Lookup(name string) string {
	if v, ok := e.ShellVars[name]; ok {
		return v
	}
	return e.EnvVars[name]
}

// SetEnv sets an exported variable, visible to children through Environ.
func (e *Env) SetEnv(name, val string) { e.EnvVars[name] = val }

// SetVar sets a shell-only variable, invisible to children.
func (e *Env) SetVar(name, val string) { e.ShellVars[name] = val }

// Unset removes name from both maps unconditionally.
func (e *Env) Unset(name string) {
	delete(e.EnvVars, name)
	delete(e.ShellVars, name)
}

// Environ builds a KEY=VALUE slice suitable for execve's envp, from
// EnvVars only: shell_vars never cross into a child process.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.EnvVars))
	for k, v := range e.EnvVars {
		out = append(out, k+"="+v)
	}
	return out
}

// RequestExit marks the shell as exiting with the given status. evalList
// checks Exiting after every pipeline and stops early once it is set.
func (e *Env) RequestExit(code int) {
	e.Exiting = true
	e.ExitCode = code
}

// Splice replaces argv[0] with its alias expansion in place, if argv[0] is
// an alias key. Aliases only ever apply to the first word of a command.
func (e *Env) Splice(argv []string) []string {
	if len(argv) == 0 {
		return argv
	}
	expansion, ok := e.Aliases[argv[0]]
	if !ok {
		return argv
	}
	out := make([]string, 0, len(expansion)+len(argv)-1)
	out = append(out, expansion...)
	out = append(out, argv[1:]...)
	return out
}
