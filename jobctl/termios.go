// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package jobctl

import "golang.org/x/term"

// SaveTermios snapshots the terminal attributes on fd, for later restore
// via RestoreTermios. The shell calls this both around every foreground
// hand-off (to restore its own settings once the job returns control) and
// when a job stops (so a later `fg` can reinstate whatever raw/cooked
// state the stopped program left the terminal in).
func SaveTermios(fd int) (*term.State, error) {
	return term.GetState(fd)
}

// RestoreTermios reinstates a snapshot taken by SaveTermios. A nil state is
// a no-op, since a job that never touched the terminal has nothing saved.
func RestoreTermios(fd int, state *term.State) error {
	if state == nil {
		return nil
	}
	return term.Restore(fd, state)
}
