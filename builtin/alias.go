// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"fmt"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// Alias implements the alias builtin per §4.6: no arguments lists every
// alias; "name = value..." sets one; anything else is an error.
func Alias(env *shellenv.Env, argv []string, io ioset.Set) int {
	switch {
	case len(argv) == 1:
		for name, values := range env.Aliases {
			fmt.Fprintf(io.Output, "%s => %v\n", name, values)
		}
		return 0
	case len(argv) >= 4 && argv[2] == "=":
		env.Aliases[argv[1]] = append([]string(nil), argv[3:]...)
		return 0
	}
	fmt.Fprintln(io.Error, "alias: invalid assignment")
	return 1
}
