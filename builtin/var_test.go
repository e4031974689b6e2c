// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"vimsh.dev/vimsh/ioset"
)

func TestAliasSetAndList(t *testing.T) {
	env := newEnv()
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Alias(env, []string{"alias", "g", "=", "echo", "hi"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.Aliases["g"], qt.DeepEquals, []string{"echo", "hi"})

	stdout, _, status := captureOutput(t, func(io ioset.Set) int {
		return Alias(env, []string{"alias"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, stdout, qt.Contains, "g")
}

func TestAliasInvalidAssignment(t *testing.T) {
	env := newEnv()
	_, stderr, status := captureOutput(t, func(io ioset.Set) int {
		return Alias(env, []string{"alias", "g", "echo"}, io)
	})
	qt.Assert(t, status, qt.Equals, 1)
	qt.Assert(t, stderr, qt.Contains, "invalid assignment")
}

func TestVarSetAndGet(t *testing.T) {
	env := newEnv()
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Var(env, []string{"var", "X", "=", "1"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.ShellVars["X"], qt.Equals, "1")
	qt.Assert(t, env.EnvVars["X"], qt.Equals, "") // var never exports
}

func TestEvarSetsExportedVariableDirectly(t *testing.T) {
	env := newEnv()
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Evar(env, []string{"evar", "X", "=", "1"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.EnvVars["X"], qt.Equals, "1")
}

func TestExportPromotesShellVar(t *testing.T) {
	env := newEnv()
	env.SetVar("X", "1")
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Export(env, []string{"export", "X"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.EnvVars["X"], qt.Equals, "1")
}

func TestExportUndefinedVariableReturns1(t *testing.T) {
	env := newEnv()
	_, stderr, status := captureOutput(t, func(io ioset.Set) int {
		return Export(env, []string{"export", "NOPE"}, io)
	})
	qt.Assert(t, status, qt.Equals, 1)
	qt.Assert(t, stderr, qt.Contains, "undefined")
}

func TestUnsetRemovesFromBothMaps(t *testing.T) {
	env := newEnv()
	env.SetEnv("X", "1")
	env.SetVar("X", "2")
	_, _, status := captureOutput(t, func(io ioset.Set) int {
		return Unset(env, []string{"unset", "X"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, env.Lookup("X"), qt.Equals, "")
}

func TestArgsPrintsIndexedArgv(t *testing.T) {
	env := newEnv()
	stdout, _, status := captureOutput(t, func(io ioset.Set) int {
		return Args(env, []string{"args", "a", "b"}, io)
	})
	qt.Assert(t, status, qt.Equals, 0)
	qt.Assert(t, stdout, qt.Equals, "0: \"args\"\n1: \"a\"\n2: \"b\"\n")
}
