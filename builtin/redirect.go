// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"fmt"
	"io"
	"os"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// Overwrite implements the > builtin per §4.6: truncate-or-create path,
// then copy stdin into it. Status 1 is a missing argument, 2 is an open
// error, 3 is a copy error.
func Overwrite(env *shellenv.Env, argv []string, stdio ioset.Set) int {
	return writeTo(argv, stdio, ">", os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// Append implements the >> builtin per §4.6: same shape as Overwrite, but
// opens the path for appending instead of truncating it.
func Append(env *shellenv.Env, argv []string, stdio ioset.Set) int {
	return writeTo(argv, stdio, ">>", os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func writeTo(argv []string, stdio ioset.Set, name string, flag int) int {
	if len(argv) < 2 {
		fmt.Fprintf(stdio.Error, "%s: takes 1 argument\n", name)
		return 1
	}
	f, err := os.OpenFile(argv[1], flag, 0o644)
	if err != nil {
		fmt.Fprintf(stdio.Error, "%s: %v\n", name, err)
		return 2
	}
	defer f.Close()
	if _, err := io.Copy(f, stdio.Input); err != nil {
		fmt.Fprintf(stdio.Error, "%s: %v\n", name, err)
		return 3
	}
	return 0
}
