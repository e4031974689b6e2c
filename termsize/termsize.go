// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package termsize tracks the controlling terminal's size in two atomic
// cells, refreshed by a SIGWINCH handler, so the line editor can lay out
// a line against the current width without an ioctl on every keystroke.
package termsize

import (
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Tracker holds the last known terminal dimensions for fd, updated
// whenever the process receives SIGWINCH.
type Tracker struct {
	fd   int
	rows atomic.Int64
	cols atomic.Int64

	sig  chan os.Signal
	done chan struct{}
}

// New starts tracking fd's size, taking an initial synchronous reading
// before any SIGWINCH has arrived. Call Stop when the tracker is no
// longer needed, typically on shell exit.
func New(fd int) *Tracker {
	t := &Tracker{
		fd:   fd,
		sig:  make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	t.refresh()
	signal.Notify(t.sig, unix.SIGWINCH)
	go t.loop()
	return t
}

func (t *Tracker) loop() {
	for {
		select {
		case <-t.sig:
			t.refresh()
		case <-t.done:
			return
		}
	}
}

func (t *Tracker) refresh() {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return
	}
	t.cols.Store(int64(cols))
	t.rows.Store(int64(rows))
}

// Size returns the last known (rows, cols), safe to call from any
// goroutine without blocking on a terminal ioctl.
func (t *Tracker) Size() (rows, cols int) {
	return int(t.rows.Load()), int(t.cols.Load())
}

// Stop ends the SIGWINCH goroutine and releases the signal registration.
func (t *Tracker) Stop() {
	signal.Stop(t.sig)
	close(t.done)
}
