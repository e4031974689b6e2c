// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package builtin implements the shell's built-in commands: the ones that
// must run in the shell's own process rather than a forked child, because
// they mutate shell state (cd, export, alias, ...) or the terminal/job
// table directly (fg, jobs, exit).
package builtin

import (
	"fmt"
	"os"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// Cd implements cd per §4.6: no argument goes to $HOME (or "." if unset);
// "-"/"+" walk the undo/redo stacks; anything else chdirs directly and
// pushes the previous directory onto the undo stack, clearing redo.
func Cd(env *shellenv.Env, argv []string, io ioset.Set) int {
	var target string
	switch {
	case len(argv) < 2:
		target = env.Lookup("HOME")
		if target == "" {
			target = "."
		}
		return cdTo(env, io, target)
	case argv[1] == "-":
		return cdUndo(env, io)
	case argv[1] == "+":
		return cdRedo(env, io)
	default:
		return cdTo(env, io, argv[1])
	}
}

func cdUndo(env *shellenv.Env, io ioset.Set) int {
	n := len(env.CdUndoStack)
	if n == 0 {
		return 2
	}
	target := env.CdUndoStack[n-1]
	env.CdUndoStack = env.CdUndoStack[:n-1]
	old, oldErr := os.Getwd()
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(io.Error, "cd: %v\n", err)
		return 1
	}
	if oldErr == nil {
		env.CdRedoStack = append(env.CdRedoStack, old)
		env.SetEnv("OLDPWD", old)
	}
	env.SetEnv("PWD", target)
	return 0
}

func cdRedo(env *shellenv.Env, io ioset.Set) int {
	n := len(env.CdRedoStack)
	if n == 0 {
		return 2
	}
	target := env.CdRedoStack[n-1]
	env.CdRedoStack = env.CdRedoStack[:n-1]
	old, oldErr := os.Getwd()
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(io.Error, "cd: %v\n", err)
		return 1
	}
	if oldErr == nil {
		env.CdUndoStack = append(env.CdUndoStack, old)
		env.SetEnv("OLDPWD", old)
	}
	env.SetEnv("PWD", target)
	return 0
}

// cdTo chdirs to target, pushing the previous directory onto the undo
// stack and clearing redo, whether target came from an explicit argument
// or the $HOME fallback.
func cdTo(env *shellenv.Env, io ioset.Set, target string) int {
	old, oldErr := os.Getwd()
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(io.Error, "cd: %v\n", err)
		return 1
	}
	if oldErr == nil {
		env.CdUndoStack = append(env.CdUndoStack, old)
		env.SetEnv("OLDPWD", old)
	}
	env.CdRedoStack = nil
	env.SetEnv("PWD", target)
	return 0
}
