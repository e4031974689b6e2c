// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"fmt"

	"vimsh.dev/vimsh/ioset"
	"vimsh.dev/vimsh/shellenv"
)

// Exit implements exit per §4.6: it refuses to leave while any job is
// still tracked, so a background or stopped process is never orphaned
// silently. It asks the engine to stop rather than calling os.Exit itself,
// so the top-level loop still gets a chance to restore terminal state.
func Exit(env *shellenv.Env, argv []string, io ioset.Set) int {
	jobs := env.Jobs.All()
	if len(jobs) > 0 {
		fmt.Fprintf(io.Error, "exit: you have %d pending jobs.\n", len(jobs))
		return 1
	}
	env.RequestExit(0)
	return 0
}

// Jobs implements the jobs builtin per §4.6: print each tracked job's
// index and process group id.
func Jobs(env *shellenv.Env, argv []string, io ioset.Set) int {
	for i, job := range env.Jobs.All() {
		fmt.Fprintf(io.Output, "[%d] %d\n", i, job.Pgid)
	}
	return 0
}
