// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"fmt"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// Var implements the var builtin per §4.6: no arguments lists every
// shell-only variable; "name = value" sets one (exactly one value, unlike
// alias); anything else is an error.
func Var(env *shellenv.Env, argv []string, io ioset.Set) int {
	switch {
	case len(argv) == 1:
		for name, val := range env.ShellVars {
			fmt.Fprintf(io.Output, "%s => %s\n", name, val)
		}
		return 0
	case len(argv) == 4 && argv[2] == "=":
		env.SetVar(argv[1], argv[3])
		return 0
	}
	fmt.Fprintln(io.Error, "var: invalid assignment")
	return 1
}

// Evar implements the evar builtin: the same shape as Var, but gets and
// sets exported variables directly rather than shell-only ones, per the
// var/evar pairing in §4.6.
func Evar(env *shellenv.Env, argv []string, io ioset.Set) int {
	switch {
	case len(argv) == 1:
		for name, val := range env.EnvVars {
			fmt.Fprintf(io.Output, "%s => %s\n", name, val)
		}
		return 0
	case len(argv) == 4 && argv[2] == "=":
		env.SetEnv(argv[1], argv[3])
		return 0
	}
	fmt.Fprintln(io.Error, "evar: invalid assignment")
	return 1
}

// Export implements the export builtin per §4.6: each name must already be
// a shell-only variable; it is promoted into the exported set. A name that
// is not a shell variable yet is reported and contributes to a combined
// failure status, without stopping the loop over the remaining names.
func Export(env *shellenv.Env, argv []string, io ioset.Set) int {
	status := 0
	for _, name := range argv[1:] {
		val, ok := env.ShellVars[name]
		if !ok {
			fmt.Fprintf(io.Error, "export: variable %q is undefined\n", name)
			status = 1
			continue
		}
		env.SetEnv(name, val)
	}
	return status
}

// Unset implements the unset builtin per §4.6: remove every named
// variable from both the shell-only and exported maps.
func Unset(env *shellenv.Env, argv []string, io ioset.Set) int {
	for _, name := range argv[1:] {
		env.Unset(name)
	}
	return 0
}

// Args implements the args builtin per §4.6: a diagnostic that prints argv
// with its indices, useful when debugging alias splicing or quoting.
func Args(env *shellenv.Env, argv []string, io ioset.Set) int {
	for i, a := range argv {
		fmt.Fprintf(io.Output, "%d: %q\n", i, a)
	}
	return 0
}
